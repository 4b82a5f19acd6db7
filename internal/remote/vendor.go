package remote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/farcloser/sonorium"
	"github.com/farcloser/sonorium/internal/output"
	"github.com/farcloser/sonorium/internal/types"
)

// Request names and fields.
const (
	RequestGetLoudness = "get_loudness"
	RequestReset       = "reset"
	RequestPause       = "pause"

	FieldName  = "name"
	FieldPause = "pause"
)

// Controls is the part of a session the vendor requests drive.
type Controls interface {
	Lookup(name string) (*sonorium.Track, error)
	Query(track *sonorium.Track, kinds types.Kind) types.Snapshot
	Last() types.Snapshot
	ResetByName(name string)
	PauseByName(name string, paused bool) error
}

// Vendor registers the loudness requests against a Registrar.
type Vendor struct {
	controls  Controls
	registrar Registrar
}

// NewVendor returns a vendor for controls. Nothing is registered until Register.
func NewVendor(controls Controls) *Vendor {
	return &Vendor{controls: controls}
}

// Register installs get_loudness, reset and pause.
func (v *Vendor) Register(registrar Registrar) error {
	handlers := []struct {
		name    string
		handler Handler
	}{
		{RequestGetLoudness, v.getLoudness},
		{RequestReset, v.reset},
		{RequestPause, v.pause},
	}

	for i, h := range handlers {
		if err := registrar.RegisterRequest(h.name, h.handler); err != nil {
			for _, done := range handlers[:i] {
				registrar.UnregisterRequest(done.name)
			}

			return err
		}
	}

	v.registrar = registrar

	slog.Debug("vendor requests registered", "requests", len(handlers))

	return nil
}

// Unregister removes the requests installed by Register.
func (v *Vendor) Unregister() {
	if v.registrar == nil {
		return
	}

	for _, name := range []string{RequestGetLoudness, RequestReset, RequestPause} {
		v.registrar.UnregisterRequest(name)
	}

	v.registrar = nil
}

func nameOf(request map[string]any) string {
	name, _ := request[FieldName].(string)

	return name
}

// getLoudness reads the named track live, or answers from the last displayed snapshot.
func (v *Vendor) getLoudness(_ context.Context, request map[string]any) (map[string]any, error) {
	if name := nameOf(request); name != "" {
		if track, err := v.controls.Lookup(name); err == nil {
			return output.SnapshotToMap(v.controls.Query(track, types.KindAll)), nil
		}
	}

	return output.SnapshotToMap(v.controls.Last()), nil
}

func (v *Vendor) reset(_ context.Context, request map[string]any) (map[string]any, error) {
	v.controls.ResetByName(nameOf(request))

	return map[string]any{}, nil
}

func (v *Vendor) pause(_ context.Context, request map[string]any) (map[string]any, error) {
	paused := true

	if raw, ok := request[FieldPause]; ok && raw != nil {
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidRequest, FieldPause, raw)
		}

		paused = b
	}

	if err := v.controls.PauseByName(nameOf(request), paused); err != nil {
		return nil, err
	}

	return map[string]any{}, nil
}
