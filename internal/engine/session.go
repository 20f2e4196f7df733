package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/crk2/designer/internal/document"
	"github.com/crk2/designer/internal/typeid"
)

var (
	ErrConfigMissing     = errors.New("no products configured")
	ErrNoSelection       = errors.New("no text element selected")
	ErrExportUnavailable = errors.New("exporter not available")
	ErrInvalidClientName = errors.New("client name is required")
	ErrNoProduct         = errors.New("no product selected")
	ErrElementNotFound   = errors.New("element not found")
	ErrUnknownFont       = errors.New("font not in font list")
	ErrUnknownProduct    = errors.New("product not in catalog")
	ErrNotText           = errors.New("element is not a text element")
	ErrNotEditing        = errors.New("element is not being edited")
)

// Default canvas size when the host does not provide one.
const (
	DefaultCanvasWidth  = 500.0
	DefaultCanvasHeight = 600.0
)

// Exporter turns a flattened scene into an output file and returns its name.
type Exporter interface {
	Export(ctx context.Context, view *document.ExportView, clientName string) (string, error)
}

// DesignStore appends saved designs.
type DesignStore interface {
	Append(ctx context.Context, rec document.DesignRecord) error
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	HistoryLimit int
	LongPress    time.Duration
	Measurer     TextMeasurer
	Exporter     Exporter
	Designs      DesignStore
	Now          func() time.Time
}

// Session is one editing session. It owns the scene, the history and every gesture record,
// and it is the only writer of the scene. All methods are safe for concurrent use; they are
// serialized so a gesture and a history restoration never interleave.
type Session struct {
	mu sync.Mutex

	id        string
	resources *document.Resources
	scene     *Scene
	history   *History
	renders   *RenderSync

	// Input routing
	gestures map[string]*gesture
	pointers map[int]Point
	order    []int
	target   string

	editRequests []string

	longPress time.Duration
	measurer  TextMeasurer
	exporter  Exporter
	designs   DesignStore
	now       func() time.Time
}

// Frame is what the host applies on one display refresh.
type Frame struct {
	Writes       []StyleWrite  `json:"writes,omitempty"`
	Rebuild      bool          `json:"rebuild"`
	Commands     []DrawCommand `json:"commands,omitempty"` // set when Rebuild is true
	EditRequests []string      `json:"editRequests,omitempty"`
	Selected     string        `json:"selected"`
	CanUndo      bool          `json:"canUndo"`
	CanRedo      bool          `json:"canRedo"`
}

// NewSession starts an editor session. It refuses to start without a product catalog so the
// caller can redirect to setup.
func NewSession(opts Options, res *document.Resources) (*Session, error) {
	if res == nil || len(res.Products) == 0 {
		return nil, ErrConfigMissing
	}
	res.Normalize()

	if opts.CanvasWidth <= 0 {
		opts.CanvasWidth = DefaultCanvasWidth
	}
	if opts.CanvasHeight <= 0 {
		opts.CanvasHeight = DefaultCanvasHeight
	}
	if opts.LongPress <= 0 {
		opts.LongPress = DefaultLongPress
	}
	if opts.Measurer == nil {
		opts.Measurer = NewBasicMeasurer()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		id:        typeid.NewSessionID(),
		resources: res,
		scene:     NewScene(opts.CanvasWidth, opts.CanvasHeight),
		history:   NewHistory(opts.HistoryLimit),
		renders:   NewRenderSync(),
		gestures:  make(map[string]*gesture),
		pointers:  make(map[int]Point),
		longPress: opts.LongPress,
		measurer:  opts.Measurer,
		exporter:  opts.Exporter,
		designs:   opts.Designs,
		now:       opts.Now,
	}
	s.renders.RequestRebuild()

	Logger().Info("session started", "session", s.id, "products", len(res.Products),
		"canvasWidth", opts.CanvasWidth, "canvasHeight", opts.CanvasHeight)
	return s, nil
}

// --- Commands (host → engine) ---

// CreateTextElement adds a text element centered on the canvas, selects it and commits.
func (s *Session) CreateTextElement(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := document.Element{
		ID:        typeid.NewElementID(),
		Kind:      document.ElementKindText,
		Transform: document.IdentityTransform(),
		Text: document.TextData{
			Content:    text,
			FontFamily: s.resources.Fonts[0],
			FontSize:   document.DefaultFontSize,
			Color:      s.resources.Colors[0],
			Editable:   true,
		},
	}
	w, h := s.elementSize(&el)
	el.X = (s.scene.Width - w) / 2
	el.Y = (s.scene.Height - h) / 2

	s.addLocked(el)
	return el.ID
}

// CreateImageElement adds an image element at the default spot, selects it and commits.
func (s *Session) CreateImageElement(source string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := document.Element{
		ID:        typeid.NewElementID(),
		Kind:      document.ElementKindImage,
		X:         document.DefaultImageX,
		Y:         document.DefaultImageY,
		Transform: document.IdentityTransform(),
		Image: document.ImageData{
			Source: source,
			Width:  document.DefaultImageWidth,
			Height: document.DefaultImageHeight,
		},
	}
	s.addLocked(el)
	return el.ID
}

func (s *Session) addLocked(el document.Element) {
	s.scene.Add(el)
	s.scene.SelectedID = el.ID
	s.renders.RequestRebuild()
	s.commit("create " + string(el.Kind))
}

// SelectElement makes id the selection. It does not disturb gestures on other elements.
func (s *Session) SelectElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scene.Element(id) == nil {
		return fmt.Errorf("select %q: %w", id, ErrElementNotFound)
	}
	s.selectLocked(id)
	return nil
}

func (s *Session) selectLocked(id string) {
	s.scene.SelectedID = id
}

// ClearSelection deselects without changing the scene.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene.SelectedID = ""
}

// Selected returns the selected element id, or "".
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.SelectedID
}

// DeleteSelected removes the selected element, tearing down any gesture on it, and commits.
// It reports false when nothing is selected.
func (s *Session) DeleteSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.scene.SelectedID
	if id == "" || !s.scene.Remove(id) {
		return false
	}
	s.dropGesture(id)
	s.renders.Forget(id)
	s.renders.RequestRebuild()
	s.commit("delete")
	return true
}

// ResetScene clears the design and the history, then commits the empty scene as the new floor.
func (s *Session) ResetScene() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scene.Clear()
	clear(s.gestures)
	s.target = ""
	s.editRequests = nil
	s.scene.ProductID = ""
	s.history.Reset()
	s.renders.RequestRebuild()
	s.commit("reset")
	Logger().Info("scene reset", "session", s.id)
}

// ChangeSelectedTextColor recolors the selected text element and commits.
func (s *Session) ChangeSelectedTextColor(color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := s.scene.Selected()
	if el == nil || !el.IsText() {
		Logger().Warn("color change without text selection", "session", s.id)
		return ErrNoSelection
	}
	el.Text.Color = color
	s.renders.RequestRebuild()
	s.commit("color")
	return nil
}

// ApplyFontToSelected changes the selected text element's font family and commits.
func (s *Session) ApplyFontToSelected(font string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := s.scene.Selected()
	if el == nil || !el.IsText() {
		Logger().Warn("font change without text selection", "session", s.id)
		return ErrNoSelection
	}
	if !s.resources.HasFont(font) {
		return fmt.Errorf("apply font %q: %w", font, ErrUnknownFont)
	}
	el.Text.FontFamily = font
	s.renders.RequestRebuild()
	s.commit("font")
	return nil
}

// SelectProduct sets the product surface the design is printed on.
func (s *Session) SelectProduct(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources.Product(productID); !ok {
		return fmt.Errorf("select product %q: %w", productID, ErrUnknownProduct)
	}
	s.scene.ProductID = productID
	s.renders.RequestRebuild()
	return nil
}

// Product returns the selected product.
func (s *Session) Product() (document.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productLocked()
}

func (s *Session) productLocked() (document.Product, bool) {
	if s.scene.ProductID == "" {
		return document.Product{}, false
	}
	return s.resources.Product(s.scene.ProductID)
}

// BeginTextEdit puts a text element into edit mode, as a double click does.
func (s *Session) BeginTextEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := s.scene.Element(id)
	if el == nil {
		return fmt.Errorf("edit %q: %w", id, ErrElementNotFound)
	}
	if !el.IsText() {
		return fmt.Errorf("edit %q: %w", id, ErrNotText)
	}
	g := s.gestureFor(id)
	switch g.state {
	case GestureEditing:
		return nil
	case GestureTransforming:
		return fmt.Errorf("edit %q: element is being transformed", id)
	}
	s.blurExcept(id)
	s.selectLocked(id)
	s.enterEditing(g, el)
	return nil
}

// SetTextContent mirrors inline keystrokes into the element without committing.
func (s *Session) SetTextContent(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := s.scene.Element(id)
	if el == nil {
		return fmt.Errorf("set text %q: %w", id, ErrElementNotFound)
	}
	if !el.IsText() {
		return fmt.Errorf("set text %q: %w", id, ErrNotText)
	}
	if g := s.gestures[id]; g == nil || g.state != GestureEditing {
		return fmt.Errorf("set text %q: %w", id, ErrNotEditing)
	}
	el.Text.Content = content
	return nil
}

// EndTextEdit stores the final content, leaves edit mode and commits.
func (s *Session) EndTextEdit(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := s.scene.Element(id)
	if el == nil {
		return fmt.Errorf("end edit %q: %w", id, ErrElementNotFound)
	}
	g := s.gestures[id]
	if g == nil || g.state != GestureEditing {
		return fmt.Errorf("end edit %q: %w", id, ErrNotEditing)
	}
	el.Text.Content = content
	s.renders.RequestRebuild()
	s.endEditing(g)
	return nil
}

// Undo restores the previous snapshot. It is refused while any element is mid-gesture.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy() {
		return false
	}
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	Logger().Debug("undo", "session", s.id, "index", s.history.Index())
	return true
}

// Redo re-applies the next snapshot. It is refused while any element is mid-gesture.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy() {
		return false
	}
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	Logger().Debug("redo", "session", s.id, "index", s.history.Index())
	return true
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// HistoryIndex returns the history cursor, or -1 before the first commit.
func (s *Session) HistoryIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Index()
}

// HistoryLen returns the number of snapshots held.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

func (s *Session) restore(snap document.Snapshot) {
	s.scene.Restore(snap)
	clear(s.gestures)
	s.target = ""
	s.renders.RequestRebuild()
}

func (s *Session) busy() bool {
	for _, g := range s.gestures {
		if g.state != GestureIdle {
			return true
		}
	}
	return false
}

func (s *Session) commit(reason string) {
	s.history.Commit(s.scene.Snapshot())
	Logger().Debug("history commit", "session", s.id, "reason", reason,
		"index", s.history.Index(), "len", s.history.Len())
}

// Tick is called once per display refresh. It expires long presses and flushes the
// coalesced visual writes.
func (s *Session) Tick(now time.Time) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLongPress(now)

	writes, rebuild := s.renders.Flush()
	f := Frame{
		Writes:       writes,
		Rebuild:      rebuild,
		EditRequests: s.editRequests,
		Selected:     s.scene.SelectedID,
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
	}
	if rebuild {
		f.Commands = s.compileLocked()
	}
	s.editRequests = nil
	return f
}

// --- Queries (host ← engine) ---

func (s *Session) ID() string { return s.id }

// Resources returns the catalog the session was started with.
func (s *Session) Resources() *document.Resources { return s.resources }

// CanvasSize returns the canvas dimensions.
func (s *Session) CanvasSize() (float64, float64) {
	return s.scene.Width, s.scene.Height
}

// Render returns draw commands for the whole scene in painter's order.
func (s *Session) Render() []DrawCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compileLocked()
}

// HitTest returns the topmost element at (x, y), or "".
func (s *Session) HitTest(x, y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hitTest(x, y)
}

// GestureState returns the manipulation state of an element.
func (s *Session) GestureState(id string) GestureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.gestures[id]; ok {
		return g.state
	}
	return GestureIdle
}

// Elements returns a copy of the scene's elements in z-order.
func (s *Session) Elements() []document.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.CloneElements(s.scene.Elements)
}

// Element returns a copy of one element.
func (s *Session) Element(id string) (document.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el := s.scene.Element(id); el != nil {
		return *el, true
	}
	return document.Element{}, false
}

// ExportView returns the flattened scene with resolved geometry.
func (s *Session) ExportView() *document.ExportView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportViewLocked()
}

func (s *Session) exportViewLocked() *document.ExportView {
	view := &document.ExportView{
		CanvasWidth:  s.scene.Width,
		CanvasHeight: s.scene.Height,
		Elements:     make([]document.ExportElement, 0, len(s.scene.Elements)),
	}
	if p, ok := s.productLocked(); ok {
		view.Product = &p
	}
	for i := range s.scene.Elements {
		view.Elements = append(view.Elements, s.exportElement(&s.scene.Elements[i]))
	}
	return view
}

func (s *Session) exportElement(el *document.Element) document.ExportElement {
	w, h := s.elementSize(el)
	m := ElementMatrix(el.X, el.Y, w, h, el.Transform.Scale, el.Transform.RotationDeg)
	b := m.TransformRect(Rect{Width: w, Height: h})

	out := document.ExportElement{
		ID:   el.ID,
		Kind: el.Kind,
		Left: el.X,
		Top:  el.Y,
		Transform: document.ExportTransform{
			Scale:       el.Transform.Scale,
			RotationDeg: el.Transform.RotationDeg,
		},
		Bounds: document.Bounds{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height},
		Matrix: m.ToSlice(),
	}
	switch el.Kind {
	case document.ElementKindText:
		out.Content = el.Text.Content
		out.FontSize = el.Text.FontSize
		out.FontFamily = el.Text.FontFamily
		out.Color = el.Text.Color
	case document.ElementKindImage:
		out.Content = el.Image.Source
		out.Width = el.Image.Width
		out.Height = el.Image.Height
	}
	return out
}

// SaveDesign exports the scene and appends a design record. Validation failures leave the
// session untouched.
func (s *Session) SaveDesign(ctx context.Context, clientName string) (*document.DesignRecord, error) {
	s.mu.Lock()
	product, ok := s.productLocked()
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoProduct
	}
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		s.mu.Unlock()
		return nil, ErrInvalidClientName
	}
	if s.exporter == nil {
		s.mu.Unlock()
		Logger().Warn("save without exporter", "session", s.id)
		return nil, ErrExportUnavailable
	}
	view := s.exportViewLocked()
	exporter, designs := s.exporter, s.designs
	now := s.now()
	s.mu.Unlock()

	fileName, err := exporter.Export(ctx, view, clientName)
	if err != nil {
		return nil, fmt.Errorf("export design: %w", err)
	}

	rec := document.DesignRecord{
		ID:          typeid.NewDesignID(),
		ClientName:  clientName,
		ProductID:   product.ID,
		ProductName: product.Name,
		FileName:    fileName,
		Elements:    view.Elements,
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
	if designs != nil {
		if err := designs.Append(ctx, rec); err != nil {
			return nil, fmt.Errorf("store design: %w", err)
		}
	}

	Logger().Info("design saved", "session", s.id, "design", rec.ID, "client", clientName, "file", fileName)
	return &rec, nil
}

func (s *Session) elementSize(el *document.Element) (float64, float64) {
	if el.IsText() {
		return s.measurer.MeasureText(el.Text.Content, el.Text.FontFamily, el.Text.FontSize)
	}
	return el.Image.Width, el.Image.Height
}
