package drawing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inamate/drawkit/internal/db"
	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/typeid"
)

var (
	ErrNotFound     = errors.New("drawing not found")
	ErrForbidden    = errors.New("forbidden")
	ErrNotMember    = errors.New("not a drawing member")
	ErrUserNotFound = errors.New("user not found")
	ErrRemoveOwner  = errors.New("cannot remove drawing owner")
	ErrInvalidSize  = errors.New("invalid drawing size")
	ErrBadMarkup    = errors.New("invalid markup")
)

// MaxSize bounds both drawing dimensions.
const MaxSize = 8192

// Store is the part of the database the service needs.
type Store interface {
	CreateDrawing(ctx context.Context, arg db.CreateDrawingParams) (db.Drawing, error)
	GetDrawing(ctx context.Context, id string) (db.Drawing, error)
	ListDrawingsForUser(ctx context.Context, userID string) ([]db.Drawing, error)
	TouchDrawing(ctx context.Context, id string) error
	DeleteDrawing(ctx context.Context, id string) error
	AddDrawingMember(ctx context.Context, arg db.AddDrawingMemberParams) error
	GetDrawingMember(ctx context.Context, arg db.GetDrawingMemberParams) (db.DrawingMember, error)
	ListDrawingMembers(ctx context.Context, drawingID string) ([]db.DrawingMemberRow, error)
	RemoveDrawingMember(ctx context.Context, arg db.RemoveDrawingMemberParams) error
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	CreateSnapshot(ctx context.Context, arg db.CreateSnapshotParams) (db.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, drawingID string) (db.Snapshot, error)
}

type Service struct {
	store         Store
	defaultWidth  int
	defaultHeight int
}

func NewService(store Store) *Service {
	return &Service{
		store:         store,
		defaultWidth:  document.DefaultWidth,
		defaultHeight: document.DefaultHeight,
	}
}

// WithDefaultSize sets the size of drawings created without one.
func (s *Service) WithDefaultSize(width, height int) *Service {
	s.defaultWidth, s.defaultHeight = width, height
	return s
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// CreateParams describes a new drawing. Zero sizes use the defaults;
// Sample seeds the drawing with the sample shapes.
type CreateParams struct {
	Name   string
	Width  int
	Height int
	Sample bool
}

func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*Drawing, error) {
	if p.Width == 0 {
		p.Width = s.defaultWidth
	}
	if p.Height == 0 {
		p.Height = s.defaultHeight
	}
	if p.Width < 0 || p.Height < 0 || p.Width > MaxSize || p.Height > MaxSize {
		return nil, ErrInvalidSize
	}

	drawingID := typeid.NewDrawingID()

	var markup string
	var err error
	if p.Sample {
		markup, err = document.SampleMarkup(float64(p.Width), float64(p.Height))
	} else {
		markup, err = document.Normalize("", float64(p.Width), float64(p.Height))
	}
	if err != nil {
		return nil, fmt.Errorf("initial markup: %w", err)
	}

	dbDrawing, err := s.store.CreateDrawing(ctx, db.CreateDrawingParams{
		ID:      drawingID,
		Name:    p.Name,
		OwnerID: ownerID,
		Width:   int32(p.Width),
		Height:  int32(p.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	err = s.store.AddDrawingMember(ctx, db.AddDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    ownerID,
		Role:      db.DrawingRoleOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		DrawingID: drawingID,
		Version:   1,
		Markup:    markup,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toDrawing(dbDrawing), nil
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*Drawing, error) {
	if _, err := s.role(ctx, drawingID, userID); err != nil {
		return nil, err
	}
	dbDrawing, err := s.getDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	return toDrawing(dbDrawing), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Drawing, error) {
	dbDrawings, err := s.store.ListDrawingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := make([]Drawing, len(dbDrawings))
	for i, d := range dbDrawings {
		drawings[i] = *toDrawing(d)
	}
	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if err := s.checkOwner(ctx, drawingID, userID); err != nil {
		return err
	}
	return s.store.DeleteDrawing(ctx, drawingID)
}

// InviteByEmail adds a registered user as an editor, or with the given
// role when it is valid.
func (s *Service) InviteByEmail(ctx context.Context, drawingID, ownerID, inviteeEmail string, role db.DrawingRole) error {
	if err := s.checkOwner(ctx, drawingID, ownerID); err != nil {
		return err
	}
	if role != db.DrawingRoleViewer {
		role = db.DrawingRoleEditor
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if invitee.ID == ownerID {
		return nil
	}

	return s.store.AddDrawingMember(ctx, db.AddDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    invitee.ID,
		Role:      role,
	})
}

func (s *Service) ListMembers(ctx context.Context, drawingID, userID string) ([]Member, error) {
	if _, err := s.role(ctx, drawingID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.store.ListDrawingMembers(ctx, drawingID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, drawingID, ownerID, targetUserID string) error {
	if err := s.checkOwner(ctx, drawingID, ownerID); err != nil {
		return err
	}
	if targetUserID == ownerID {
		return ErrRemoveOwner
	}
	return s.store.RemoveDrawingMember(ctx, db.RemoveDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    targetUserID,
	})
}

// Snapshot is a stored version of a drawing's markup.
type Snapshot struct {
	Version   int    `json:"version"`
	Markup    string `json:"markup"`
	CreatedAt string `json:"createdAt"`
}

func (s *Service) GetLatestSnapshot(ctx context.Context, drawingID, userID string) (*Snapshot, error) {
	if _, err := s.role(ctx, drawingID, userID); err != nil {
		return nil, err
	}

	snap, err := s.store.GetLatestSnapshot(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &Snapshot{
		Version:   int(snap.Version),
		Markup:    snap.Markup,
		CreatedAt: formatTime(snap.CreatedAt.Time),
	}, nil
}

// SaveSnapshot normalizes markup and stores it as the next version.
// Viewers cannot save.
func (s *Service) SaveSnapshot(ctx context.Context, drawingID, userID, markup string) (*Snapshot, error) {
	role, err := s.role(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	if role == db.DrawingRoleViewer {
		return nil, ErrForbidden
	}

	dbDrawing, err := s.getDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	normalized, err := document.Normalize(markup, float64(dbDrawing.Width), float64(dbDrawing.Height))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMarkup, err)
	}

	snap, err := s.store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		DrawingID: drawingID,
		Version:   s.nextVersion(ctx, drawingID),
		Markup:    normalized,
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	if err := s.store.TouchDrawing(ctx, drawingID); err != nil {
		return nil, fmt.Errorf("touch drawing: %w", err)
	}
	return &Snapshot{
		Version:   int(snap.Version),
		Markup:    snap.Markup,
		CreatedAt: formatTime(snap.CreatedAt.Time),
	}, nil
}

// LoadDocument returns the latest markup of a drawing without an access
// check. The collaboration hub calls it after authorizing the client.
func (s *Service) LoadDocument(ctx context.Context, drawingID string) (*document.Document, error) {
	dbDrawing, err := s.getDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.GetLatestSnapshot(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	d := toDrawing(dbDrawing)
	return &document.Document{
		Drawing: document.Drawing{
			ID:        d.ID,
			Name:      d.Name,
			Width:     d.Width,
			Height:    d.Height,
			Version:   int(snap.Version),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Markup: snap.Markup,
	}, nil
}

// StoreDocument writes doc's markup as the next snapshot.
func (s *Service) StoreDocument(ctx context.Context, doc *document.Document) error {
	_, err := s.store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		DrawingID: doc.Drawing.ID,
		Version:   s.nextVersion(ctx, doc.Drawing.ID),
		Markup:    doc.Markup,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return s.store.TouchDrawing(ctx, doc.Drawing.ID)
}

// Role returns the member role of userID in a drawing.
func (s *Service) Role(ctx context.Context, drawingID, userID string) (db.DrawingRole, error) {
	return s.role(ctx, drawingID, userID)
}

func (s *Service) nextVersion(ctx context.Context, drawingID string) int32 {
	current, err := s.store.GetLatestSnapshot(ctx, drawingID)
	if err != nil {
		return 1
	}
	return current.Version + 1
}

func (s *Service) getDrawing(ctx context.Context, drawingID string) (db.Drawing, error) {
	d, err := s.store.GetDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Drawing{}, ErrNotFound
		}
		return db.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	return d, nil
}

func (s *Service) checkOwner(ctx context.Context, drawingID, userID string) error {
	d, err := s.getDrawing(ctx, drawingID)
	if err != nil {
		return err
	}
	if d.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) role(ctx context.Context, drawingID, userID string) (db.DrawingRole, error) {
	m, err := s.store.GetDrawingMember(ctx, db.GetDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotMember
		}
		return "", fmt.Errorf("check membership: %w", err)
	}
	return m.Role, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toDrawing(d db.Drawing) *Drawing {
	return &Drawing{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		Width:     int(d.Width),
		Height:    int(d.Height),
		CreatedAt: formatTime(d.CreatedAt.Time),
		UpdatedAt: formatTime(d.UpdatedAt.Time),
	}
}
