package editor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"erd/diagram"
	"erd/export"
	"erd/store"

	"go.uber.org/zap"
)

// ToolbarOptions configures a Toolbar.
type ToolbarOptions struct {
	// ConfirmClear requires Clear to be pressed twice in a row.
	ConfirmClear bool
	// FileName is the document file written by SaveFile. Defaults to erd-diagram.json.
	FileName string
	Logger   *zap.Logger
}

// Toolbar holds the editor's commands.
type Toolbar struct {
	canvas *Canvas
	store  *store.Store
	logger *zap.Logger

	confirmClear bool
	fileName     string

	clearArmed    bool
	armedRevision uint64

	// prompt is the load path being typed, nil when no prompt is open.
	prompt    *LabelEditor
	promptDir string
}

// NewToolbar creates the toolbar for canvas.
func NewToolbar(canvas *Canvas, opts ToolbarOptions) *Toolbar {
	if opts.FileName == "" {
		opts.FileName = diagram.FileName
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Toolbar{
		canvas:       canvas,
		store:        canvas.Store(),
		logger:       opts.Logger,
		confirmClear: opts.ConfirmClear,
		fileName:     opts.FileName,
	}
}

// FileName returns the document file name used by SaveFile.
func (t *Toolbar) FileName() string { return t.fileName }

// AddEntity arms entity placement.
func (t *Toolbar) AddEntity() {
	t.disarm()
	t.canvas.Begin(ActionPlaceEntity)
}

// AddAttribute arms attribute placement. It fails with ErrNoEntities on a
// diagram without entities.
func (t *Toolbar) AddAttribute() error {
	t.disarm()
	return t.canvas.Begin(ActionPlaceAttribute)
}

// AddRelationship arms relationship placement.
func (t *Toolbar) AddRelationship() {
	t.disarm()
	t.canvas.Begin(ActionPlaceRelationship)
}

// Save writes the document as indented JSON.
func (t *Toolbar) Save(w io.Writer) error {
	t.disarm()
	t.canvas.commitInline()
	data, err := diagram.Marshal(t.store.Snapshot())
	if err != nil {
		return fmt.Errorf("serializing diagram: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// SaveFile writes the document to dir/<file name> and returns the path.
func (t *Toolbar) SaveFile(dir string) (string, error) {
	var buf bytes.Buffer
	if err := t.Save(&buf); err != nil {
		t.canvas.fail("save", err)
		return "", err
	}

	path := t.path(dir)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.canvas.fail("save", err)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	t.canvas.SetStatus("Saved " + path)
	t.logger.Info("Saved diagram", zap.String("path", path))
	return path, nil
}

// Load replaces the document with the one read from r. On any error the
// current document is kept and the status explains the failure.
func (t *Toolbar) Load(r io.Reader) error {
	t.disarm()
	doc, err := diagram.Read(r)
	if err == nil {
		err = t.store.LoadDiagram(doc)
	}
	if err != nil {
		t.canvas.SetStatus("Failed to load diagram file: " + err.Error())
		t.logger.Warn("Failed to load diagram file", zap.Error(err))
		return err
	}

	t.canvas.Reset()
	t.canvas.SetStatus(fmt.Sprintf("Loaded %d entities, %d attributes, %d relationships",
		len(doc.Entities), len(doc.Attributes), len(doc.Relationships)))
	return nil
}

// PromptLoad opens the load path prompt, prefilled with the document file
// name. Relative paths typed into it resolve against dir.
func (t *Toolbar) PromptLoad(dir string) {
	t.disarm()
	t.prompt = NewLabelEditor("", "", t.fileName)
	t.promptDir = dir
	t.canvas.SetStatus("Enter loads the file, Escape cancels")
}

// Prompt returns the open load path prompt, or nil.
func (t *Toolbar) Prompt() *LabelEditor { return t.prompt }

// PromptLabel is shown before the prompt text.
func (t *Toolbar) PromptLabel() string { return "Load file: " }

// Key feeds a key to the open prompt and reports whether it was consumed.
// Enter loads the typed path; an empty path falls back to the file name.
func (t *Toolbar) Key(ev KeyEvent) (bool, error) {
	if t.prompt == nil {
		return false, nil
	}
	switch ev.SpecialKey {
	case KeyEnter:
		path := strings.TrimSpace(t.prompt.Text())
		if path == "" {
			path = t.fileName
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(t.promptDir, path)
		}
		t.prompt = nil
		return true, t.LoadFile(path)
	case KeyEscape:
		t.prompt = nil
		t.canvas.SetStatus("Load cancelled")
	default:
		t.prompt.HandleKey(ev)
	}
	return true, nil
}

// LoadFile loads the document stored at path.
func (t *Toolbar) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		t.canvas.SetStatus("Failed to load diagram file: " + err.Error())
		t.logger.Warn("Failed to open diagram file", zap.String("path", path), zap.Error(err))
		return err
	}
	defer f.Close()
	if err := t.Load(f); err != nil {
		return err
	}
	t.logger.Info("Loaded diagram", zap.String("path", path))
	return nil
}

// Clear empties the diagram. With confirmation enabled the first call only
// arms the command and returns false; a second call before any other change
// clears.
func (t *Toolbar) Clear() (bool, error) {
	if t.confirmClear && !(t.clearArmed && t.armedRevision == t.store.Revision()) {
		t.clearArmed = true
		t.armedRevision = t.store.Revision()
		t.canvas.SetStatus("Press clear again to remove every entity, attribute and relationship")
		return false, nil
	}
	t.disarm()

	t.canvas.Reset()
	if err := t.store.ClearDiagram(); err != nil {
		t.canvas.fail("clear", err)
		return true, err
	}
	t.canvas.SetStatus("Diagram cleared")
	return true, nil
}

// Export writes the document in the given text format.
func (t *Toolbar) Export(format export.Format, w io.Writer) error {
	t.disarm()
	exp, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	out, err := exp.Export(t.store.Snapshot())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// ExportFile writes the document in the given format next to the JSON file
// and returns the path.
func (t *Toolbar) ExportFile(format export.Format, dir string) (string, error) {
	exp, err := export.NewExporter(format)
	if err != nil {
		return "", err
	}
	base := t.fileName[:len(t.fileName)-len(filepath.Ext(t.fileName))]
	path := filepath.Join(dir, base+exp.GetFileExtension())

	var buf bytes.Buffer
	if err := t.Export(format, &buf); err != nil {
		t.canvas.fail("export", err)
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.canvas.fail("export", err)
		return "", err
	}
	t.canvas.SetStatus(fmt.Sprintf("Exported %s to %s", exp.GetFormatName(), path))
	return path, nil
}

func (t *Toolbar) path(dir string) string {
	return filepath.Join(dir, t.fileName)
}

func (t *Toolbar) disarm() {
	t.clearArmed = false
}
