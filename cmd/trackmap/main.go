// Command trackmap turns a directory of GPX track logs into a single
// interactive map page, and can preview it locally or upload it to a web host.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/intermernet/trackmap/internal/config"
	"github.com/intermernet/trackmap/internal/preview"
	"github.com/intermernet/trackmap/internal/publish"
	"github.com/intermernet/trackmap/internal/site"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile    string
	trackDir   string
	outputFile string
	skipUpload bool
)

var rootCmd = &cobra.Command{
	Use:          "trackmap",
	Short:        "Turn a directory of GPX tracks into an interactive web map.",
	SilenceUsage: true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the map page locally.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = buildSite(cfg)
		return err
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Generate the map page and upload it to the web host.",
	RunE:  runPublish,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate the map page and serve it locally.",
	RunE:  runPreview,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment variables to load")
	rootCmd.PersistentFlags().StringVar(&trackDir, "dir", "", "directory with GPX files (overrides TRACK_DIR)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "out", "", "path of the generated page (overrides OUTPUT_FILE)")
	publishCmd.Flags().BoolVar(&skipUpload, "skip-upload", false, "build the page but do not upload it")

	rootCmd.AddCommand(buildCmd, publishCmd, previewCmd)
}

// main is the entry point for the trackmap command line tool.
func main() {
	// Every command receives this context. Ctrl-C cancels it, which aborts a
	// running upload and shuts the preview server down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("ERROR: %v", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the env file (if present) and the environment, then
// applies command line overrides.
func loadConfig() (*config.Config, error) {
	// The env file is optional. Without it every setting comes from the real
	// environment or the built-in defaults.
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("INFO: No env file %s found, using environment variables from the system.", envFile)
	}

	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if trackDir != "" {
		cfg.TrackDir = trackDir
	}
	if outputFile != "" {
		cfg.OutputFile = outputFile
	}
	return cfg, nil
}

// buildSite generates everything in memory first and only writes once the
// whole pipeline succeeded.
func buildSite(cfg *config.Config) (*site.Site, error) {
	s, err := site.Build(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Write(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// runPublish builds the page, writes it locally and uploads it. The local
// copy is always written first, so a failed upload never loses the build.
func runPublish(cmd *cobra.Command, args []string) error {
	// --- 1. Load Configuration ---
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// --- 2. Validate The Destination ---
	// Check the destination before doing any work so a missing password
	// does not surface only after the build.
	if !skipUpload {
		if err := cfg.ValidatePublish(); err != nil {
			return err
		}
	}

	// --- 3. Build And Write The Page ---
	s, err := buildSite(cfg)
	if err != nil {
		return err
	}
	if skipUpload {
		log.Println("INFO: Upload skipped.")
		return nil
	}

	// --- 4. Upload ---
	// The protocol picks the transport; the timeout bounds the whole
	// transfer, not just the dial.
	publisher, err := publish.New(cfg.PublishProtocol, publish.Options{
		Timeout:       cfg.PublishTimeout,
		SSHKnownHosts: cfg.SSHKnownHosts,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if cfg.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.PublishTimeout)
		defer cancel()
	}

	err = publisher.Publish(ctx, s.Document, publish.Destination{
		Host:       cfg.PublishHost,
		Username:   cfg.PublishUser,
		Password:   cfg.PublishPassword,
		RemotePath: cfg.PublishRemotePath,
	})
	if err != nil {
		// The page is already on disk; only the upload failed.
		return fmt.Errorf("publish failed, local copy kept at %s: %w", cfg.OutputFile, err)
	}
	return nil
}

// runPreview builds the page and serves it locally until interrupted.
func runPreview(cmd *cobra.Command, args []string) error {
	// --- 1. Load Configuration ---
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// --- 2. Build And Write The Page ---
	s, err := buildSite(cfg)
	if err != nil {
		return err
	}

	// --- 3. Serve ---
	// Only the home icon's directory is exposed next to the page; the page
	// directory often holds the .env file.
	assets, ok := preview.AssetsFor(cfg.OutputFile, cfg.HomeIcon)
	if !ok {
		log.Printf("WARN: Home icon %q is not in a subdirectory of the page, static assets are not served.", cfg.HomeIcon)
	}
	server := preview.NewServer(s.Document, s.Payloads, s.GeoJSON, assets)

	// The signal context from main stops the server on Ctrl-C.
	return server.ListenAndServe(cmd.Context(), cfg.PreviewAddr)
}
