package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/confmate/confmate/internal/profile"
	"github.com/confmate/confmate/server/ai"
	apiv1 "github.com/confmate/confmate/server/router/api/v1"
	"github.com/confmate/confmate/server/runner/embedding"
	"github.com/confmate/confmate/store"
	"github.com/confmate/confmate/store/db"
)

const (
	greetingBanner = `
┌─┐┌─┐┌┐┌┌─┐┌┬┐┌─┐┌┬┐┌─┐
│  │ ││││├┤ │││├─┤ │ ├┤
└─┘└─┘┘└┘└  ┴ ┴┴ ┴ ┴ └─┘
`
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "confmate",
	Short: "A conference companion service with an AI concierge",
	Run: func(_ *cobra.Command, _ []string) {
		serverProfile, err := loadProfile()
		if err != nil {
			slog.Error("failed to load profile", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(serverProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			os.Exit(1)
		}
		storeInstance := store.New(dbDriver, serverProfile)
		defer storeInstance.Close()

		echoServer := newEchoServer(serverProfile, storeInstance)

		// Keep session embeddings in sync so vector retrieval has data.
		// Best effort; the keyword path serves everything regardless.
		if serverProfile.IsAIEnabled() {
			if provider, err := ai.NewProvider(ai.ConfigFromProfile(serverProfile)); err != nil {
				slog.Warn("embedding sync disabled", "error", err)
			} else {
				go embedding.NewRunner(provider, storeInstance).Run(ctx)
			}
		}

		go func() {
			addr := fmt.Sprintf("%s:%d", serverProfile.Addr, serverProfile.Port)
			if err := echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
				slog.Error("server stopped", "error", err)
				cancel()
			}
		}()

		printGreeting(serverProfile)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := echoServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	},
}

// tokenCmd mints an access token for a user ID. Meant for development and
// deployments without an external identity provider.
var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Mint a signed access token for the given user ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		serverProfile, err := loadProfile()
		if err != nil {
			return err
		}
		if serverProfile.JWTSecret == "" {
			return fmt.Errorf("no JWT secret configured, set CONFMATE_JWT_SECRET")
		}
		userID, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil || userID <= 0 {
			return fmt.Errorf("user-id must be a positive integer")
		}
		token, err := apiv1.GenerateToken(serverProfile.JWTSecret, int32(userID), int64(viper.GetInt("token-ttl")))
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("token-ttl", 86400)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your confmate instance")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("confmate")
	viper.AutomaticEnv()

	rootCmd.AddCommand(tokenCmd)
}

// loadProfile assembles the server profile from flags, environment and
// defaults, in that precedence order.
func loadProfile() (*profile.Profile, error) {
	serverProfile := &profile.Profile{
		Mode:        viper.GetString("mode"),
		Addr:        viper.GetString("addr"),
		Port:        viper.GetInt("port"),
		Data:        viper.GetString("data"),
		Driver:      viper.GetString("driver"),
		DSN:         viper.GetString("dsn"),
		InstanceURL: viper.GetString("instance-url"),
		Version:     version,
	}
	serverProfile.FromEnv()
	if err := serverProfile.Validate(); err != nil {
		return nil, err
	}
	return serverProfile, nil
}

func newEchoServer(serverProfile *profile.Profile, storeInstance *store.Store) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())

	apiService := apiv1.NewAPIV1Service(serverProfile.JWTSecret, serverProfile, storeInstance)
	apiService.Register(echoServer)
	return echoServer
}

func printGreeting(serverProfile *profile.Profile) {
	fmt.Print(greetingBanner)
	fmt.Printf("Version %s has been started on port %d\n", version, serverProfile.Port)
	if serverProfile.InstanceURL != "" {
		fmt.Printf("See more in %s\n", serverProfile.InstanceURL)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", "error", err)
		os.Exit(1)
	}
}
