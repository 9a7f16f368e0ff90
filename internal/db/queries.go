package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Queries runs the store's statements against a pool, connection or
// transaction.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns queries bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// --- users ---

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

const createUser = `INSERT INTO users (id, email, password, display_name)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password, display_name, created_at`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `SELECT id, email, password, display_name, created_at
FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

const getUserByID = `SELECT id, email, password, display_name, created_at
FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

// --- drawings ---

type CreateDrawingParams struct {
	ID      string
	Name    string
	OwnerID string
	Width   int32
	Height  int32
}

const createDrawing = `INSERT INTO drawings (id, name, owner_id, width, height)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, owner_id, width, height, created_at, updated_at`

func (q *Queries) CreateDrawing(ctx context.Context, arg CreateDrawingParams) (Drawing, error) {
	row := q.db.QueryRow(ctx, createDrawing, arg.ID, arg.Name, arg.OwnerID, arg.Width, arg.Height)
	return scanDrawing(row)
}

const getDrawing = `SELECT id, name, owner_id, width, height, created_at, updated_at
FROM drawings WHERE id = $1`

func (q *Queries) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	return scanDrawing(q.db.QueryRow(ctx, getDrawing, id))
}

const listDrawingsForUser = `SELECT d.id, d.name, d.owner_id, d.width, d.height, d.created_at, d.updated_at
FROM drawings d
JOIN drawing_members m ON m.drawing_id = d.id
WHERE m.user_id = $1
ORDER BY d.updated_at DESC`

func (q *Queries) ListDrawingsForUser(ctx context.Context, userID string) ([]Drawing, error) {
	rows, err := q.db.Query(ctx, listDrawingsForUser, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Drawing, error) {
		return scanDrawing(row)
	})
}

const touchDrawing = `UPDATE drawings SET updated_at = now() WHERE id = $1`

func (q *Queries) TouchDrawing(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, touchDrawing, id)
	return err
}

const deleteDrawing = `DELETE FROM drawings WHERE id = $1`

func (q *Queries) DeleteDrawing(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteDrawing, id)
	return err
}

func scanDrawing(row pgx.Row) (Drawing, error) {
	var d Drawing
	err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &d.Width, &d.Height, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// --- members ---

type AddDrawingMemberParams struct {
	DrawingID string
	UserID    string
	Role      DrawingRole
}

const addDrawingMember = `INSERT INTO drawing_members (drawing_id, user_id, role)
VALUES ($1, $2, $3)
ON CONFLICT (drawing_id, user_id) DO UPDATE SET role = EXCLUDED.role`

func (q *Queries) AddDrawingMember(ctx context.Context, arg AddDrawingMemberParams) error {
	_, err := q.db.Exec(ctx, addDrawingMember, arg.DrawingID, arg.UserID, string(arg.Role))
	return err
}

type GetDrawingMemberParams struct {
	DrawingID string
	UserID    string
}

const getDrawingMember = `SELECT drawing_id, user_id, role, created_at
FROM drawing_members WHERE drawing_id = $1 AND user_id = $2`

func (q *Queries) GetDrawingMember(ctx context.Context, arg GetDrawingMemberParams) (DrawingMember, error) {
	row := q.db.QueryRow(ctx, getDrawingMember, arg.DrawingID, arg.UserID)
	var m DrawingMember
	err := row.Scan(&m.DrawingID, &m.UserID, &m.Role, &m.CreatedAt)
	return m, err
}

const listDrawingMembers = `SELECT m.user_id, m.role, u.display_name, u.email
FROM drawing_members m
JOIN users u ON u.id = m.user_id
WHERE m.drawing_id = $1
ORDER BY m.created_at`

func (q *Queries) ListDrawingMembers(ctx context.Context, drawingID string) ([]DrawingMemberRow, error) {
	rows, err := q.db.Query(ctx, listDrawingMembers, drawingID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (DrawingMemberRow, error) {
		var m DrawingMemberRow
		err := row.Scan(&m.UserID, &m.Role, &m.DisplayName, &m.Email)
		return m, err
	})
}

type RemoveDrawingMemberParams struct {
	DrawingID string
	UserID    string
}

const removeDrawingMember = `DELETE FROM drawing_members WHERE drawing_id = $1 AND user_id = $2`

func (q *Queries) RemoveDrawingMember(ctx context.Context, arg RemoveDrawingMemberParams) error {
	_, err := q.db.Exec(ctx, removeDrawingMember, arg.DrawingID, arg.UserID)
	return err
}

// --- snapshots ---

type CreateSnapshotParams struct {
	ID        string
	DrawingID string
	Version   int32
	Markup    string
}

const createSnapshot = `INSERT INTO snapshots (id, drawing_id, version, markup)
VALUES ($1, $2, $3, $4)
RETURNING id, drawing_id, version, markup, created_at`

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot, arg.ID, arg.DrawingID, arg.Version, arg.Markup)
	return scanSnapshot(row)
}

const getLatestSnapshot = `SELECT id, drawing_id, version, markup, created_at
FROM snapshots WHERE drawing_id = $1
ORDER BY version DESC LIMIT 1`

func (q *Queries) GetLatestSnapshot(ctx context.Context, drawingID string) (Snapshot, error) {
	return scanSnapshot(q.db.QueryRow(ctx, getLatestSnapshot, drawingID))
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var s Snapshot
	err := row.Scan(&s.ID, &s.DrawingID, &s.Version, &s.Markup, &s.CreatedAt)
	return s, err
}
