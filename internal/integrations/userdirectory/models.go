package userdirectory

// Роли пользователей
const (
	RoleModerator = "moderator"
	RoleRequester = "requester"
	RoleEmployee  = "employee"
)

// User модель пользователя из справочника
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsModerator возвращает true для активного модератора
func (u *User) IsModerator() bool {
	return u.IsActive && u.Role == RoleModerator
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
