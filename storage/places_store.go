package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"memories-backend/model"
)

// BackupKey is the fixed object-store path of the serialized places document.
const BackupKey = "backups/places.json"

// CoordTolerance is the maximum per-axis difference, in degrees, for two
// coordinate pairs to be considered the same place (~10 m).
const CoordTolerance = 1e-4

// ErrPlaceNotFound is returned by UpdateCaption when no record matches
// the given coordinates.
var ErrPlaceNotFound = errors.New("no place matches the given coordinates")

// PlacesStore keeps the ordered list of photo memories in a local JSON
// file and mirrors it to the object store under BackupKey. The remote
// copy is authoritative at startup (Restore), the local copy during the
// process lifetime. There is no locking between overlapping requests;
// last writer wins.
type PlacesStore struct {
	store ObjectStore
	path  string
	log   *zap.Logger
}

func NewPlacesStore(store ObjectStore, path string, log *zap.Logger) *PlacesStore {
	return &PlacesStore{store: store, path: path, log: log}
}

// Restore replaces the local document with the remote backup. A missing
// backup means no data exists: any stale local file is reset to an empty
// document rather than kept.
func (p *PlacesStore) Restore(ctx context.Context) error {
	data, err := p.store.GetObject(ctx, BackupKey)
	if errors.Is(err, ErrObjectNotFound) {
		p.log.Info("no places backup found, starting with empty document")
		return p.writeLocal([]model.PlaceRecord{})
	}
	if err != nil {
		return fmt.Errorf("fetch places backup: %w", err)
	}

	var places []model.PlaceRecord
	if err := json.Unmarshal(data, &places); err != nil {
		return fmt.Errorf("decode places backup: %w", err)
	}
	if err := p.writeLocal(places); err != nil {
		return err
	}

	p.log.Info("restored places from backup", zap.Int("count", len(places)))
	return nil
}

// Append adds a record to the local document and uploads the whole
// document to the backup key. Read-modify-write-replicate, no isolation.
func (p *PlacesStore) Append(ctx context.Context, rec model.PlaceRecord) error {
	places := p.readLocal()
	places = append(places, rec)

	if err := p.writeLocal(places); err != nil {
		return err
	}
	if err := p.backup(ctx, places); err != nil {
		return err
	}

	p.log.Info("appended place record",
		zap.String("id", rec.ID),
		zap.Int("count", len(places)))
	return nil
}

// UpdateCaption sets the caption of the first record whose coordinates
// match within CoordTolerance. When the record holds a nested photo list
// and photoIndex addresses a valid entry, that photo's caption is set
// instead. The backup copy is read and written directly; the local file
// is left untouched on this path.
func (p *PlacesStore) UpdateCaption(ctx context.Context, coords model.GeoPoint, photoIndex int, caption string) error {
	data, err := p.store.GetObject(ctx, BackupKey)
	if errors.Is(err, ErrObjectNotFound) {
		return ErrPlaceNotFound
	}
	if err != nil {
		return fmt.Errorf("fetch places backup: %w", err)
	}

	var places []model.PlaceRecord
	if err := json.Unmarshal(data, &places); err != nil {
		return fmt.Errorf("decode places backup: %w", err)
	}

	for i := range places {
		if !coordsMatch(places[i].Coords, coords) {
			continue
		}
		if len(places[i].Photos) > 0 && photoIndex >= 0 && photoIndex < len(places[i].Photos) {
			places[i].Photos[photoIndex].Caption = caption
		} else {
			places[i].Caption = caption
		}
		return p.backup(ctx, places)
	}

	return ErrPlaceNotFound
}

// All returns the local document, degrading to an empty slice on any
// read or parse failure.
func (p *PlacesStore) All() []model.PlaceRecord {
	return p.readLocal()
}

// Count returns the length of the local document, zero on any failure.
func (p *PlacesStore) Count() int {
	return len(p.readLocal())
}

// Cleanup drops records that no longer reference a stored object and
// rewrites both copies. Returns the number of dropped records.
func (p *PlacesStore) Cleanup(ctx context.Context) (int, error) {
	places := p.readLocal()
	kept := places[:0]
	for _, rec := range places {
		if rec.HasURL() {
			kept = append(kept, rec)
		}
	}

	dropped := len(places) - len(kept)
	if dropped == 0 {
		return 0, nil
	}

	if err := p.writeLocal(kept); err != nil {
		return 0, err
	}
	if err := p.backup(ctx, kept); err != nil {
		return 0, err
	}

	p.log.Info("cleaned up place records", zap.Int("dropped", dropped))
	return dropped, nil
}

func (p *PlacesStore) readLocal() []model.PlaceRecord {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Warn("failed to read places file", zap.Error(err))
		}
		return []model.PlaceRecord{}
	}
	if len(data) == 0 {
		return []model.PlaceRecord{}
	}

	var places []model.PlaceRecord
	if err := json.Unmarshal(data, &places); err != nil {
		p.log.Warn("failed to parse places file", zap.Error(err))
		return []model.PlaceRecord{}
	}
	return places
}

func (p *PlacesStore) writeLocal(places []model.PlaceRecord) error {
	data, err := json.MarshalIndent(places, "", "  ")
	if err != nil {
		return fmt.Errorf("encode places: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("write places file: %w", err)
	}
	return nil
}

func (p *PlacesStore) backup(ctx context.Context, places []model.PlaceRecord) error {
	data, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("encode places: %w", err)
	}
	if err := p.store.PutObject(ctx, BackupKey, data, "application/json"); err != nil {
		return fmt.Errorf("upload places backup: %w", err)
	}
	return nil
}

func coordsMatch(a *model.GeoPoint, b model.GeoPoint) bool {
	if a == nil {
		return false
	}
	return math.Abs(a.Latitude-b.Latitude) <= CoordTolerance &&
		math.Abs(a.Longitude-b.Longitude) <= CoordTolerance
}
