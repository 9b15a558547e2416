package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"sync"
	"time"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/progress"
	"github.com/livefir/widgetdemo/internal/upload"
)

// Interactive demonstrates a progress bar, a file uploader and camera input.
//
// Over a WebSocket the progress loop runs on its own goroutine and pushes a
// redraw after every step, so everything the loop touches is guarded by mu.
type Interactive struct {
	Steps     int
	Interval  time.Duration
	MaxUpload int64

	mu        sync.Mutex
	sim       *progress.Simulation
	started   bool
	completed bool
	celebrate bool

	bc      widgetdemo.Broadcaster
	connCtx context.Context

	upload    *upload.Result
	uploadErr string

	photo     *upload.Image
	photoWarn string
}

// Init implements widgetdemo.StoreInitializer
func (i *Interactive) Init() error {
	i.sim = progress.New(i.Steps, i.Interval)
	return nil
}

// OnConnect implements widgetdemo.BroadcastAware
func (i *Interactive) OnConnect(ctx context.Context, b widgetdemo.Broadcaster) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bc = b
	i.connCtx = ctx
	return nil
}

// OnDisconnect implements widgetdemo.BroadcastAware
func (i *Interactive) OnDisconnect() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bc = nil
	i.connCtx = nil
}

// BeforeRedraw implements widgetdemo.RedrawAware. A finished simulation
// disappears on the next interaction, a running one keeps going.
func (i *Interactive) BeforeRedraw() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.celebrate = false
	if !i.sim.State().Running {
		i.started = false
		i.completed = false
		i.sim.Reset()
	}
	i.photoWarn = ""
}

func (i *Interactive) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "simulate":
		return i.simulate(ctx.Context())
	case "upload":
		return i.receiveUpload(ctx)
	case "clear_upload":
		i.mu.Lock()
		i.upload = nil
		i.uploadErr = ""
		i.mu.Unlock()
	case "capture":
		i.capture(ctx)
	case "clear_photo":
		i.mu.Lock()
		i.photo = nil
		i.mu.Unlock()
	default:
		log.Printf("Unknown interactive action: %s", ctx.Action)
	}
	return nil
}

func (i *Interactive) simulate(reqCtx context.Context) error {
	i.mu.Lock()
	if err := i.sim.Start(); err != nil {
		// Already running, the click is ignored
		i.mu.Unlock()
		return nil
	}
	i.started = true
	i.completed = false
	bc, connCtx := i.bc, i.connCtx
	i.mu.Unlock()

	if bc == nil {
		// Plain HTTP: run to completion before the redraw.
		if err := i.sim.Run(reqCtx, nil, i.finish); err != nil {
			return fmt.Errorf("progress simulation stopped: %w", err)
		}
		return nil
	}

	go func() {
		err := i.sim.Run(connCtx, func(int) {
			if err := bc.Send(); err != nil {
				log.Printf("Progress redraw failed: %v", err)
			}
		}, i.finish)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("Progress simulation stopped: %v", err)
			}
			return
		}
		if err := bc.Send(); err != nil {
			log.Printf("Progress redraw failed: %v", err)
		}
	}()
	return nil
}

// finish runs before the simulation stops reporting Running, so BeforeRedraw
// never sees a stopped run that is not yet marked completed.
func (i *Interactive) finish() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.completed = true
	i.celebrate = true
}

func (i *Interactive) receiveUpload(ctx *widgetdemo.ActionContext) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.upload = nil
	i.uploadErr = ""

	if msg := ctx.GetString("error"); msg != "" {
		return widgetdemo.FieldError{Field: "upload", Message: msg}
	}

	content, err := ctx.Data.GetBytes("content")
	if err != nil {
		return widgetdemo.NewFieldError("upload", err)
	}

	res, err := upload.Process(upload.File{
		Name:    ctx.GetString("name"),
		Type:    ctx.GetString("type"),
		Size:    int64(ctx.GetInt("size")),
		Content: content,
	}, upload.Options{MaxBytes: i.MaxUpload})
	if err != nil {
		return widgetdemo.NewFieldError("upload", err)
	}

	i.upload = res
	if res.PreviewErr != nil {
		if res.IsCSV() {
			i.uploadErr = fmt.Sprintf("Error reading CSV file: %v", res.PreviewErr)
		} else {
			i.uploadErr = fmt.Sprintf("Error processing text file: %v", res.PreviewErr)
		}
	}
	return nil
}

func (i *Interactive) capture(ctx *widgetdemo.ActionContext) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if msg := ctx.GetString("error"); msg != "" {
		i.photoWarn = cameraWarning(msg)
		return
	}

	data, err := ctx.Data.GetBytes("image")
	if err != nil {
		i.photoWarn = cameraWarning(err.Error())
		return
	}
	img, err := upload.DecodeImage(data)
	if err != nil {
		i.photoWarn = cameraWarning(err.Error())
		return
	}
	i.photo = img
}

func cameraWarning(cause string) string {
	return fmt.Sprintf("Camera input failed: %s. Allow access to the webcam; in some environments the camera is not available.", cause)
}

// Progress returns the state of the simulation.
func (i *Interactive) Progress() progress.State {
	return i.sim.State()
}

// Started reports whether the progress bar should be shown.
func (i *Interactive) Started() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.started
}

// Completed reports whether the last simulation finished.
func (i *Interactive) Completed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.completed
}

// Celebrate reports whether the page should play balloons.
func (i *Interactive) Celebrate() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.celebrate
}

// Upload returns the last accepted upload, or nil.
func (i *Interactive) Upload() *upload.Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.upload
}

// UploadError is the message shown when an accepted file could not be previewed.
func (i *Interactive) UploadError() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.uploadErr
}

// Photo returns the last captured picture, or nil.
func (i *Interactive) Photo() *upload.Image {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.photo
}

// PhotoWarning is set when the last capture failed.
func (i *Interactive) PhotoWarning() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.photoWarn
}

// MaxUploadSize returns the upload limit for display.
func (i *Interactive) MaxUploadSize() int64 {
	if i.MaxUpload <= 0 {
		return upload.DefaultMaxBytes
	}
	return i.MaxUpload
}

// UploadDetails is the file summary as indented JSON.
func (i *Interactive) UploadDetails() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.upload == nil {
		return ""
	}
	out, err := json.MarshalIndent(i.upload.Details, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

// PhotoURL is the captured picture as a data URL.
func (i *Interactive) PhotoURL() template.URL {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.photo == nil {
		return ""
	}
	return template.URL(i.photo.DataURL())
}
