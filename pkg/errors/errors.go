package errors

import (
	"errors"
	"fmt"
)

// ErrorType identifica a categoria de um erro da aplicação.
type ErrorType string

const (
	// Categorias genéricas
	ErrUnknown      ErrorType = "Unknown"
	ErrInvalidInput ErrorType = "InvalidInput"
	ErrNotFound     ErrorType = "NotFound"
	ErrInternal     ErrorType = "Internal"
	ErrUnauthorized ErrorType = "Unauthorized"
	ErrSystem       ErrorType = "System"

	// Categorias específicas do domínio (resolução de produtos da Shopee)
	ErrInvalidURL          ErrorType = "InvalidURL"          // a URL não corresponde a nenhum formato reconhecido de produto
	ErrUpstreamUnavailable ErrorType = "UpstreamUnavailable" // falha de transporte (timeout, conexão, status não-2xx) nas APIs upstream
	ErrNoData              ErrorType = "NoData"              // todas as camadas de consulta foram tentadas e nenhuma produziu dados utilizáveis
)

// AppError erro estruturado da aplicação, com categoria e causa encadeada.
type AppError struct {
	Type    ErrorType // categoria do erro
	Message string    // mensagem voltada ao operador/usuário
	Cause   error     // erro de origem (wrapping)
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New cria um novo erro com a categoria informada.
func New(errType ErrorType, msg string) error {
	return &AppError{
		Type:    errType,
		Message: msg,
	}
}

// Newf cria um novo erro com a categoria informada e mensagem formatada.
func Newf(errType ErrorType, format string, args ...interface{}) error {
	return &AppError{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap envolve um erro existente, atribuindo categoria e mensagem adicionais.
func Wrap(err error, errType ErrorType, msg string) error {
	return &AppError{
		Type:    errType,
		Message: msg,
		Cause:   err,
	}
}

// Is verifica se o erro (ou algum erro da cadeia) possui a categoria informada.
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Cause retorna o erro de origem, ou nil caso não exista.
func Cause(err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Cause
	}
	return nil
}

// GetType retorna a categoria do erro. Erros que não são AppError (ou nil) retornam ErrUnknown.
func GetType(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrUnknown
}
