package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Store
	Sink     services.Notifier
	Logger   *zap.Logger
	Ctx      context.Context
}
