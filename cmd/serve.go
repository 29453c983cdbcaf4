package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"voltrack/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveHost   string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API",
	Long: `Start a local HTTP server exposing volunteers, shifts, imports, exports and shift reviews.

The server is meant for one user on this machine; it has no authentication and listens on
localhost by default. When remote sync is enabled, changes are mirrored to the shared sheet.`,
	Example: `
  # Start on the default port
  voltrack serve

  # Custom port, no browser
  voltrack serve --port 9090 --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		handler := web.NewServer(a.store, a.registry, *a.cfg,
			web.WithSync(a.sync),
			web.WithLogger(a.logger),
		)

		addr := fmt.Sprintf("%s:%d", serveHost, servePort)
		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://%s:%d/api/volunteers", serveHost, servePort)
		a.logger.Info("server started", zap.String("addr", addr), zap.Bool("sync", a.sync != nil))
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local server")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Interface to listen on")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
