package log

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// logDirectoryName diretório onde os arquivos de log são gravados.
	logDirectoryName = "logs"

	// Política padrão de rotação dos arquivos de log.
	defaultMaxSizeMB  = 100 // tamanho máximo de cada arquivo (MB)
	defaultMaxBackups = 20  // quantidade máxima de arquivos rotacionados mantidos
)

// Setup inicializa o sistema global de logging.
//
// Em modo debug os logs são enviados para o console em nível Debug; fora dele,
// são gravados em arquivo com rotação automática (lumberjack) em nível Info.
// O io.Closer retornado deve ser fechado no encerramento da aplicação.
func Setup(debug bool, appName string, maxAgeDays int) io.Closer {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetOutput(os.Stdout)

		return io.NopCloser(nil)
	}

	log.SetLevel(log.InfoLevel)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDirectoryName, appName+".log"),
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
		LocalTime:  true,
	}
	log.SetOutput(rotator)

	return rotator
}

// WithComponent retorna um Entry com o campo "component" preenchido,
// permitindo identificar a origem de cada mensagem de log.
func WithComponent(component string) *log.Entry {
	return log.WithField("component", component)
}

// WithComponentAndFields retorna um Entry com o campo "component" e campos adicionais.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	return log.WithField("component", component).WithFields(fields)
}
