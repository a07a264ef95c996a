package userdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент справочника пользователей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetUser получает пользователя по ID
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	url := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &user, nil
}

// IsModerator проверяет роль пользователя
// Неизвестный пользователь не модератор. При недоступности справочника
// возвращается ErrServiceDegraded: вызывающий код должен запретить действие.
func (c *Client) IsModerator(ctx context.Context, userID int64) (bool, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.log.Info("User id=%d not found in directory", userID)
			return false, nil
		}

		c.log.Error("User directory unavailable, denying privileged access for user_id=%d: %v", userID, err)
		return false, fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	return user.IsModerator(), nil
}

// Static справочник с фиксированным списком модераторов
// Используется, когда внешний справочник не настроен (локальный запуск, тесты)
type Static struct {
	moderators map[int64]struct{}
}

// NewStatic создает справочник по списку ID модераторов
func NewStatic(moderatorIDs []int64) *Static {
	s := &Static{moderators: make(map[int64]struct{}, len(moderatorIDs))}
	for _, id := range moderatorIDs {
		s.moderators[id] = struct{}{}
	}
	return s
}

// IsModerator возвращает true для ID из списка
func (s *Static) IsModerator(_ context.Context, userID int64) (bool, error) {
	_, ok := s.moderators[userID]
	return ok, nil
}
