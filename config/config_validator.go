package config

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

var validate = newValidator()

// Formato de token de bot do Telegram (ex.: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11).
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// newValidator cria a instância do Validator com as funções de validação
// específicas da aplicação registradas.
func newValidator() *validator.Validate {
	v := validator.New()

	// Nas mensagens de erro, expõe o nome JSON do campo (ex.: base_url) no
	// lugar do nome do campo Go (ex.: BaseURL).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("cors_origin", validateCORSOrigin); err != nil {
		panic(fmt.Sprintf("erro fatal de inicialização: falha ao registrar a validação 'cors_origin': %v", err))
	}
	if err := v.RegisterValidation("telegram_bot_token", validateTelegramBotToken); err != nil {
		panic(fmt.Sprintf("erro fatal de inicialização: falha ao registrar a validação 'telegram_bot_token': %v", err))
	}

	return v
}

// validateCORSOrigin verifica se a string é um Origin bem formado
// (Scheme://Host[:Porta], sem caminho) ou o curinga.
func validateCORSOrigin(fl validator.FieldLevel) bool {
	origin := fl.Field().String()
	if origin == "*" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") &&
		u.Host != "" && u.Path == "" && u.RawQuery == "" && u.Fragment == "" && u.User == nil
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// checkStruct valida a estrutura e converte o primeiro erro em uma mensagem
// amigável com o contexto informado.
func checkStruct(v *validator.Validate, s interface{}, contextName string) error {
	if err := v.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			firstErr := validationErrors[0]
			return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("a configuração de %s é inválida: %s (condição: %s)", contextName, firstErr.Field(), firstErr.Tag()))
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("a validação de %s falhou", contextName))
	}
	return nil
}

// checkUniqueField verifica a unicidade de um campo dentro de uma fatia.
func checkUniqueField(v *validator.Validate, data interface{}, fieldName, contextName string) error {
	if err := v.Var(data, "unique="+fieldName); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "unique" {
					return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("existe um ID de %s duplicado: '%v'", contextName, fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("a verificação de unicidade de %s falhou", contextName))
	}
	return nil
}

// translateCORSError converte os erros do validator sobre origens CORS em
// mensagens amigáveis.
func translateCORSError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			if fieldErr.Tag() == "cors_origin" {
				return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("a origem CORS é inválida: '%v' (formato: Scheme://Host[:Porta], ex.: https://exemplo.com.br)", fieldErr.Value()))
			}
		}
	}
	return apperrors.Wrap(err, apperrors.ErrInvalidInput, "ocorreu um erro desconhecido na validação do CORS")
}
