package queue

import (
	"github.com/ATenderholt/rainbow-ingest/internal/logging"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func init() {
	logger = logging.NewLogger().Named("queue")
}
