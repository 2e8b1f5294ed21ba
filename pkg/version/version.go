// Package version carrega as informações de build injetadas na compilação.
package version

// BuildInfo metadados de build da aplicação, injetados via -ldflags e
// expostos no endpoint de versão e nos logs de inicialização.
type BuildInfo struct {
	Version   string // tag ou hash do commit (ex.: "v1.4.2", "abc123d")
	BuildDate string // data do build em ISO 8601
}
