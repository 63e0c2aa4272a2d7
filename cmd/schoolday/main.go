package main

import (
	"context"
	"github.com/icinga/icinga-go-library/logging"
	"github.com/icinga/icinga-go-library/utils"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/daemon"
	"github.com/stuyutils/schoolday/internal/loader"
	"github.com/stuyutils/schoolday/internal/schedule"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	flags, conf := daemon.ParseFlagsAndConfig()

	at, err := schedule.ParseTimestamp(flags.At, time.Now())
	if err != nil {
		utils.PrintErrorThenExit(errors.Wrap(err, "invalid --at"), daemon.ExitFailure)
	}

	logs, err := logging.NewLoggingFromConfig("schoolday", conf.Logging)
	if err != nil {
		utils.PrintErrorThenExit(err, daemon.ExitFailure)
	}

	logger := logs.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := loader.NewSource(&conf.Source)
	if err != nil {
		utils.PrintErrorThenExit(err, daemon.ExitFailure)
	}
	if c, ok := src.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	data, err := loader.Load(ctx, src, logs.GetChildLogger("loader").SugaredLogger)
	if err != nil {
		utils.PrintErrorThenExit(err, daemon.ExitFailure)
	}

	r := schedule.NewResolver(data.Table, data.Catalog,
		schedule.WithLogger(logs.GetChildLogger("resolver").SugaredLogger),
		schedule.WithSkipPassing(conf.Resolver.SkipPassing))

	logger.Debugw("Resolving schedule", "at", at)

	if err := report(os.Stdout, r, at, flags.Transitions); err != nil {
		utils.PrintErrorThenExit(err, daemon.ExitFailure)
	}
}
