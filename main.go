// Package main provides the erd CLI and terminal editor.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"erd/config"
	"erd/diagram"
	"erd/editor"
	"erd/export"
	"erd/logging"
	"erd/storage"
	"erd/store"
	"erd/terminal"
)

var (
	configPath  string
	backendFlag string
	dataDirFlag string
	logLevel    string
	ephemeral   bool

	exportFormat string
	exportOutput string
)

var rootCmd = &cobra.Command{
	Use:   "erd [file]",
	Short: "erd - entity relationship diagrams in the terminal",
	Long: `erd edits entity relationship diagrams in the terminal. The diagram is kept
in local storage between sessions and can be exported to other formats.

Examples:
  erd                          # Open the stored diagram
  erd shop.json                # Import shop.json, then open the editor
  erd export --format mermaid  # Print the stored diagram as Mermaid
  erd --storage sqlite         # Keep the diagram in a SQLite database`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEditor,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored diagram",
	RunE:  runExport,
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a diagram document and list its problems",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored diagram with a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entity, attribute and relationship from the stored diagram",
	RunE:  runClear,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./erd.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "storage", "", "Storage backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the stored diagram and log")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the diagram in memory only")

	formats := make([]string, 0, len(export.GetAvailableFormats()))
	for _, f := range export.GetAvailableFormats() {
		formats = append(formats, string(f))
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatJSON),
		"Export format: "+strings.Join(formats, ", "))
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the storage, store and logger shared by every command.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage storage.Storage
	store   *store.Store
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Storage.Backend = backendFlag
	}
	if ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}
	if dataDirFlag != "" {
		cfg.Storage.DataDir = dataDirFlag
		cfg.Log.File = filepath.Join(dataDirFlag, "erd.log")
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	st, err := storage.Open(cfg.Storage.Backend, cfg.Storage.DataDir)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	s := store.New(st, store.Options{Key: cfg.Storage.Key, Logger: logger})
	if err := s.Open(ctx); err != nil {
		st.Close()
		logger.Sync()
		return nil, fmt.Errorf("reading stored diagram: %w", err)
	}

	logger.Debug("Session opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("data_dir", cfg.Storage.DataDir))
	return &session{cfg: cfg, logger: logger, storage: st, store: s}, nil
}

func (s *session) Close() {
	if err := s.storage.Close(); err != nil {
		s.logger.Warn("Failed to close storage", zap.Error(err))
	}
	s.logger.Sync()
}

func (s *session) newToolbar() (*editor.Canvas, *editor.Toolbar) {
	c := editor.NewCanvas(s.store, editor.Options{
		Logger:            s.logger,
		InlineDoubleClick: s.cfg.Editor.InlineDoubleClick,
	})
	t := editor.NewToolbar(c, editor.ToolbarOptions{
		ConfirmClear: s.cfg.Editor.ConfirmClear,
		FileName:     s.cfg.Editor.FileName,
		Logger:       s.logger,
	})
	return c, t
}

// importFile replaces the stored diagram with the document at path.
func (s *session) importFile(path string) (*diagram.Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := diagram.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.store.LoadDiagram(doc); err != nil {
		return nil, fmt.Errorf("storing %s: %w", path, err)
	}
	s.logger.Info("Imported diagram", zap.String("path", path))
	return doc, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if len(args) == 1 {
		if _, err := sess.importFile(args[0]); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	c, t := sess.newToolbar()
	app := terminal.New(screen, c, t, terminal.Options{
		Logger:     sess.logger,
		Dir:        wd,
		CellWidth:  sess.cfg.Editor.CellWidth,
		CellHeight: sess.cfg.Editor.CellHeight,
	})
	return app.Run()
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	_, t := sess.newToolbar()
	var buf bytes.Buffer
	if err := t.Export(format, &buf); err != nil {
		return fmt.Errorf("exporting %s: %w", format, err)
	}

	if exportOutput == "" {
		_, err := io.Copy(cmd.OutOrStdout(), &buf)
		return err
	}
	if err := os.WriteFile(exportOutput, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", format, exportOutput)
	return nil
}

// errInvalid marks a validate run that found problems; the problems are
// already printed.
var errInvalid = errors.New("diagram is invalid")

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	doc, err := diagram.Parse(data)
	if err != nil {
		fmt.Fprintf(out, "%s: invalid\n", args[0])
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		return errInvalid
	}

	fmt.Fprintf(out, "%s: ok (%d entities, %d attributes, %d relationships)\n",
		args[0], len(doc.Entities), len(doc.Attributes), len(doc.Relationships))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, err := sess.importFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entities, %d attributes, %d relationships\n",
		len(doc.Entities), len(doc.Attributes), len(doc.Relationships))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.store.ClearDiagram(); err != nil {
		return fmt.Errorf("clearing stored diagram: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Diagram cleared")
	return nil
}
