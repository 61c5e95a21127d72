package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ChatBookingService/internal/api/handlers"
)

type contextKey string

const customerIDKey contextKey = "customerID"

const (
	headerCustomerID     = "X-Customer-ID"
	msgMissingCustomerID = "отсутствует заголовок X-Customer-ID"
	msgInvalidCustomerID = "некорректный ID клиента"
)

// Auth проверяет наличие заголовка X-Customer-ID и кладет ID клиента
// в контекст запроса. Аутентификацию выполняет внешний gateway,
// сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(headerCustomerID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingCustomerID)
			return
		}

		customerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || customerID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidCustomerID)
			return
		}

		ctx := context.WithValue(r.Context(), customerIDKey, customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCustomerID извлекает ID клиента из контекста запроса
func GetCustomerID(ctx context.Context) (int64, bool) {
	customerID, ok := ctx.Value(customerIDKey).(int64)
	return customerID, ok
}
