// walletctl prepares the database and mints development tokens.
//
//	walletctl migrate [--reset]
//	walletctl token [--ttl 5] [--iss manual] USER_ID [SCOPE...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/baharkarakas/wallet-api/internal/auth"
	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/db"
	"github.com/baharkarakas/wallet-api/internal/logger"
)

const usage = `usage:
  walletctl migrate [--reset]                              create or update the database
  walletctl token [--ttl 5] [--iss manual] USER_ID [SCOPE...]  create a login token for tests
`

var errUsage = errors.New("invalid usage")

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, pflag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "walletctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "migrate":
		return migrate(ctx, cfg, args[1:], stderr)
	case "token":
		return token(cfg, args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return errUsage
	}
}

func migrate(ctx context.Context, cfg config.Config, args []string, stderr io.Writer) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	reset := fs.BoolP("reset", "r", false, "drop existing database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logger.New(cfg.Debug, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx, *reset); err != nil {
		return err
	}
	log.Info("database ready", zap.Bool("reset", *reset))
	return nil
}

func token(cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	ttl := fs.Int("ttl", 5, "token expiration time in minutes")
	iss := fs.String("iss", "manual", "token issuer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	userID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("USER_ID must be an integer: %q", fs.Arg(0))
	}

	tm, err := auth.NewTokenManager(cfg.SigningAlgorithm, cfg.PublicKey, cfg.PrivateKey, cfg.Audience)
	if err != nil {
		return err
	}
	tok, err := tm.Issue(userID, fs.Args()[1:], time.Duration(*ttl)*time.Minute, *iss)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok)
	return nil
}
