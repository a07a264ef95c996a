package history

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("history.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("history.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("history.repository: failed to scan row")

	// ErrEncodeDetails возвращается, когда детали записи не сериализуются в JSON
	ErrEncodeDetails = errors.New("history.repository: failed to encode details")
)
