package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент транспорта сообщений
// Доставляет клиентам исходящие сообщения и публикует событие о созданном
// бронировании для внешнего контура напоминаний
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента транспорта
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendMessage доставляет исходящее сообщение клиенту
func (c *Client) SendMessage(ctx context.Context, msg *Message) error {
	url := fmt.Sprintf("%s/internal/v1/messages", c.baseURL)

	if err := c.post(ctx, url, msg); err != nil {
		return err
	}

	c.log.Info("SendMessage: delivered template=%s to business=%d, customer=%d",
		msg.TemplateKey, msg.BusinessID, msg.CustomerID)
	return nil
}

// PublishBookingCreated публикует событие о созданном бронировании
func (c *Client) PublishBookingCreated(ctx context.Context, event domain.BookingCreatedEvent) error {
	url := fmt.Sprintf("%s/internal/v1/events/booking-created", c.baseURL)

	if err := c.post(ctx, url, event); err != nil {
		return err
	}

	c.log.Info("PublishBookingCreated: published event for booking id=%d", event.BookingID)
	return nil
}

// NotifySlotAvailable уведомляет клиента из очереди ожидания об
// освободившемся слоте на желаемую дату
func (c *Client) NotifySlotAvailable(ctx context.Context, entry *domain.WaitlistEntry, offer domain.SlotOffer) error {
	msg := &Message{
		BusinessID:  entry.BusinessID,
		CustomerID:  entry.CustomerID,
		TemplateKey: "waitlist_slot_available",
		TemplateArgs: map[string]string{
			"date":  offer.Date.Format(domain.DateFormat),
			"time":  offer.StartTime.String(),
			"until": formatNotifyDeadline(entry),
		},
		Offers: []OfferButton{{
			OfferID:      offer.ID,
			DisplayLabel: fmt.Sprintf("%s %s", offer.Date.Format("02.01"), offer.StartTime),
		}},
		Language: domain.DefaultLanguage,
	}

	return c.SendMessage(ctx, msg)
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

func formatNotifyDeadline(entry *domain.WaitlistEntry) string {
	if entry.NotifyExpiresAt == nil {
		return ""
	}
	return entry.NotifyExpiresAt.Format(time.RFC3339)
}
