package booking

import (
	"github.com/m04kA/SMC-ChatBookingService/pkg/txmanager"
)

// DBExecutor интерфейс для работы с БД
// Репозиторий получает executor из контекста: внутри транзакции это *sql.Tx
type DBExecutor = txmanager.Executor
