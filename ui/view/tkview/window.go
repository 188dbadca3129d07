// Package tkview shows the recorder preview in a Tk window.
package tkview

import (
	"fmt"
	"image"
	"time"

	"github.com/hanckmann/webcamrec/ui/images"
	"github.com/hanckmann/webcamrec/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Options control the window geometry and palette.
type Options struct {
	PreviewWidth  int
	PreviewHeight int
	Dark          bool
}

const (
	minPreview = 50
	// pumpStep bounds how long PollKey sleeps between Tk event pumps.
	pumpStep = 5 * time.Millisecond
)

// Preview is the Tk root window holding a preview label and a status label.
// Tk must be driven from the goroutine that created it; the caller locks
// that goroutine to its OS thread.
type Preview struct {
	preview   *LabelWidget
	status    *LabelWidget
	prevPhoto *Img // last Tk photo image instance, deleted on replace
	targetW   int
	targetH   int
	palette   PaletteSnapshot

	keys   []view.Key
	closed bool
	text   string
}

// Opener returns a view.Opener creating Tk windows with opts.
func Opener(opts Options) view.Opener {
	return func(title string) (view.Window, error) { return OpenPreview(title, opts) }
}

// OpenPreview configures the Tk root window. There is only one root, so
// OpenPreview must not be called twice in a process.
func OpenPreview(title string, opts Options) (w *Preview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tk window: %v", r)
		}
	}()
	w = &Preview{palette: PaletteFor(opts.Dark)}
	w.setTargetSize(opts.PreviewWidth, opts.PreviewHeight)
	applyStyles(w.palette)

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", func() { w.push(view.KeyClose) })
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", w.targetW+16, w.targetH+48))

	placeholder := images.EncodePNG(images.Placeholder(w.targetW, w.targetH))
	w.prevPhoto = NewPhoto(Data(placeholder))
	w.preview = Label(Image(w.prevPhoto), Borderwidth(1), Relief("sunken"), Background(w.palette.Surface))
	w.status = Label(Txt("starting"), Borderwidth(1), Relief("ridge"),
		Background(w.palette.Surface), Foreground(w.palette.Text))
	Grid(w.preview, Row(0), Column(0), Sticky("nswe"), Padx("0.4m"), Pady("0.4m"))
	Grid(w.status, Row(1), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	bindings := map[string]view.Key{
		"<Escape>":     view.KeyEscape,
		"<KeyPress-q>": view.KeyQ,
		"<Return>":     view.KeyEnter,
		"<KP_Enter>":   view.KeyEnter,
		"<space>":      view.KeySpace,
	}
	for event, key := range bindings {
		k := key
		Bind(App, event, Command(func() { w.push(k) }))
	}
	Update()
	return w, nil
}

func (w *Preview) push(k view.Key) {
	if w.closed {
		return
	}
	w.keys = append(w.keys, k)
}

// Show scales img into the preview label, replacing the previous photo.
func (w *Preview) Show(img image.Image) {
	if w.closed || w.preview == nil || img == nil {
		return
	}
	// Scale for display only; allocate a fresh scaled image each call.
	scaled := images.ScaleToFit(img, w.targetW, w.targetH)
	pngBytes := images.EncodePNG(scaled)
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if w.prevPhoto != nil {
		w.prevPhoto.Delete()
	}
	w.prevPhoto = NewPhoto(Data(pngBytes))
	w.preview.Configure(Image(w.prevPhoto))
}

// SetStatus updates the status label.
func (w *Preview) SetStatus(text string) {
	if w.closed || w.status == nil || text == w.text {
		return
	}
	w.text = text
	w.status.Configure(Txt(text), Background(w.palette.Accent), Foreground("white"))
}

// PollKey pumps Tk events until a bound key arrives or timeout elapses.
func (w *Preview) PollKey(timeout time.Duration) view.Key {
	deadline := time.Now().Add(timeout)
	for {
		if w.closed {
			return view.KeyClose
		}
		Update()
		if len(w.keys) > 0 {
			k := w.keys[0]
			w.keys = w.keys[1:]
			return k
		}
		left := time.Until(deadline)
		if left <= 0 {
			return view.KeyNone
		}
		time.Sleep(min(left, pumpStep))
	}
}

// Close destroys the root window. It is idempotent.
func (w *Preview) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tk close: %v", r)
		}
	}()
	if w.prevPhoto != nil {
		w.prevPhoto.Delete()
		w.prevPhoto = nil
	}
	Destroy(App)
	return nil
}

// setTargetSize updates desired scaling dimensions used by Show.
func (w *Preview) setTargetSize(width, height int) {
	if width < minPreview {
		width = minPreview
	}
	if height < minPreview {
		height = minPreview
	}
	w.targetW, w.targetH = width, height
}
