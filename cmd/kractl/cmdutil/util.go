// Package cmdutil holds the settings and helpers shared by kractl commands.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kra360/internal/apiclient"
	"kra360/internal/cli/output"
	"kra360/internal/cli/prompt"
	cryptoutil "kra360/internal/platform/crypto"
	"kra360/internal/session"
	"kra360/internal/view"
)

const (
	EnvPrefix     = "KRA360"
	DefaultServer = "http://localhost:3000/api/v1"
)

// ErrNotLoggedIn is returned by commands that need a stored session.
var ErrNotLoggedIn = errors.New("not logged in. Run 'kractl login' first")

// Flags holds the resolved global settings. Flags win over KRA360_*
// environment variables, which win over the config file.
var Flags = &GlobalFlags{}

type GlobalFlags struct {
	Server      string
	Output      string
	NoColor     bool
	Verbose     bool
	SessionFile string
	DataKey     string
	Timeout     time.Duration
}

// Load resolves the global settings for cmd with viper.
func Load(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("server", DefaultServer)
	v.SetDefault("output", string(output.FormatTable))
	v.SetDefault("timeout", 30*time.Second)

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	Flags.Server = v.GetString("server")
	Flags.Output = v.GetString("output")
	Flags.NoColor = v.GetBool("no-color")
	Flags.Verbose = v.GetBool("verbose")
	Flags.SessionFile = v.GetString("session-file")
	Flags.DataKey = v.GetString("data-key")
	Flags.Timeout = v.GetDuration("timeout")
	if _, err := output.ParseFormat(Flags.Output); err != nil {
		return err
	}
	return nil
}

func configDir() (string, error) {
	path, err := session.DefaultFilePath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

func Logger() *slog.Logger {
	level := slog.LevelWarn
	if Flags.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Client returns a backend client. With --verbose every call is logged.
func Client() *apiclient.Client {
	logger := Logger()
	return apiclient.New(Flags.Server,
		apiclient.WithHTTPClient(&http.Client{Timeout: Flags.Timeout}),
		apiclient.WithObserver(func(method, path string, status int, err error) {
			logger.Debug("backend call", "method", method, "path", path, "status", status, "err", err)
		}),
	)
}

// Storage returns the session file, sealed when a data key is set.
func Storage() (session.Storage, error) {
	path := Flags.SessionFile
	if path == "" {
		defaultPath, err := session.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	var storage session.Storage = session.NewFileStorage(path)
	if Flags.DataKey != "" {
		sealer, err := cryptoutil.New(Flags.DataKey, "cli-session")
		if err != nil {
			return nil, err
		}
		storage = session.NewEncryptedStorage(storage, sealer)
	}
	return storage, nil
}

// Store returns the session store with any stored identity restored.
func Store(ctx context.Context, client *apiclient.Client) (*session.Store, error) {
	storage, err := Storage()
	if err != nil {
		return nil, err
	}
	store := session.New(client, storage, session.WithLogger(Logger()))
	store.RestoreSession(ctx)
	return store, nil
}

// Dashboard returns the views of the signed-in employee.
func Dashboard(ctx context.Context) (*view.Service, error) {
	client := Client()
	store, err := Store(ctx, client)
	if err != nil {
		return nil, err
	}
	viewer, ok := store.CurrentUser()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return view.NewService(client.As(viewer.ID), viewer), nil
}

func Printer(w io.Writer) *output.Printer {
	format, _ := output.ParseFormat(Flags.Output)
	return output.NewPrinter(w, format, !Flags.NoColor)
}

// Confirm asks before a mutation unless force is set. Ctrl+C counts as no.
func Confirm(label string, force bool) (bool, error) {
	confirmed, err := prompt.ConfirmWithForce(label, force)
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return false, nil
	}
	return confirmed, err
}

func EmptyOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// LoadableError reports a failed part of a view as an error line.
func LoadableError[T any](p *output.Printer, label string, l view.Loadable[T]) bool {
	if l.State != view.StateError {
		return false
	}
	p.Error(fmt.Sprintf("%s: %s", label, l.Error))
	return true
}
