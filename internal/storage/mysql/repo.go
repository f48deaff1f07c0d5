package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_management/internal/domain"
)

const errDuplicateEntry = 1062

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct {
	db *sql.DB
	q  querier
	tx bool
}

var _ domain.Repository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db, q: db} }

func (r *Repo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) (err error) {
	if r.tx {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()
	return fn(&Repo{db: r.db, q: tx, tx: true})
}

// likePattern lowercases s and escapes LIKE wildcards, returning %s%.
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func search(q domain.PageQuery) (string, string) {
	s := strings.TrimSpace(q.Search)
	return s, likePattern(s)
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// write executes a statement, translating unique-key violations into conflict.
func (r *Repo) write(ctx context.Context, conflictMsg, query string, args ...any) (sql.Result, error) {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return nil, domain.Conflict("%s", conflictMsg)
		}
		return nil, err
	}
	return res, nil
}

// remove deletes by id and reports a missing row as not found.
func (r *Repo) remove(ctx context.Context, query string, id any, notFound error) error {
	res, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound
	}
	return nil
}

func (r *Repo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *Repo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func hotelNotFound(id string) error  { return domain.NotFound("Hotel not found with id: %s", id) }
func branchNotFound(id string) error { return domain.NotFound("Branch not found with id: %s", id) }
func addressNotFound(id string) error {
	return domain.NotFound("Address not found with id: %s", id)
}

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc sql.NullString
	err := s.Scan(&h.ID, &h.Name, &desc, &h.StarRating, &h.StartingPrice, &h.Active, &h.CreatedAt, &h.UpdatedAt)
	if desc.Valid {
		h.Description = desc.String
	}
	return h, err
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.write(ctx, fmt.Sprintf("Hotel with id '%s' already exists", h.ID), insertHotelSQL,
		h.ID, h.Name, h.Description, h.StarRating, h.StartingPrice, h.Active, h.CreatedAt, h.UpdatedAt)
	return err
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.q.QueryRowContext(ctx, selectHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, hotelNotFound(id)
	}
	return h, err
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.q.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Description, h.StarRating, h.StartingPrice, h.Active, h.UpdatedAt, h.ID)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id string) error {
	return r.remove(ctx, deleteHotelSQL, id, hotelNotFound(id))
}

func (r *Repo) ListHotels(ctx context.Context, q domain.PageQuery) ([]domain.Hotel, int64, error) {
	s, like := search(q)
	total, err := r.count(ctx, countHotelsSQL, s, like)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx, listHotelsSQL, s, like, q.Size, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}

// -----------------------------------------------------------------------------
// BRANCHES
// -----------------------------------------------------------------------------

func scanBranch(s rowScanner) (domain.Branch, error) {
	var b domain.Branch
	err := s.Scan(&b.ID, &b.HotelID, &b.Name, &b.Type, &b.RoomCount)
	return b, err
}

func (r *Repo) scanBranches(rows *sql.Rows) ([]domain.Branch, error) {
	defer rows.Close()
	var out []domain.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func branchConflict(name string) string {
	return fmt.Sprintf("Branch with name '%s' already exists for this hotel", name)
}

func (r *Repo) CreateBranch(ctx context.Context, b domain.Branch) error {
	_, err := r.write(ctx, branchConflict(b.Name), insertBranchSQL, b.ID, b.HotelID, b.Name, b.Type, b.RoomCount)
	return err
}

func (r *Repo) GetBranch(ctx context.Context, id string) (domain.Branch, error) {
	b, err := scanBranch(r.q.QueryRowContext(ctx, selectBranchSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Branch{}, branchNotFound(id)
	}
	return b, err
}

func (r *Repo) UpdateBranch(ctx context.Context, b domain.Branch) error {
	_, err := r.write(ctx, branchConflict(b.Name), updateBranchSQL, b.HotelID, b.Name, b.Type, b.RoomCount, b.ID)
	return err
}

func (r *Repo) DeleteBranch(ctx context.Context, id string) error {
	return r.remove(ctx, deleteBranchSQL, id, branchNotFound(id))
}

func (r *Repo) BranchNameExists(ctx context.Context, hotelID, name string) (bool, error) {
	return r.exists(ctx, branchNameExistsSQL, hotelID, name)
}

func (r *Repo) ListBranches(ctx context.Context, hotelID string, q domain.PageQuery) ([]domain.Branch, int64, error) {
	s, like := search(q)
	total, err := r.count(ctx, countBranchesSQL, hotelID, hotelID, s, like)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx, listBranchesSQL, hotelID, hotelID, s, like, q.Size, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	out, err := r.scanBranches(rows)
	return out, total, err
}

func (r *Repo) BranchesOfHotel(ctx context.Context, hotelID string) ([]domain.Branch, error) {
	rows, err := r.q.QueryContext(ctx, branchesOfHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	return r.scanBranches(rows)
}

// -----------------------------------------------------------------------------
// ADDRESSES
// -----------------------------------------------------------------------------

func scanAddress(s rowScanner) (domain.Address, error) {
	var a domain.Address
	err := s.Scan(&a.ID, &a.BranchID, &a.AddressLine, &a.City, &a.Country, &a.Latitude, &a.Longitude)
	return a, err
}

func addressConflict(branchID string) string {
	return fmt.Sprintf("Address already exists for branch id: %s", branchID)
}

func (r *Repo) CreateAddress(ctx context.Context, a domain.Address) error {
	_, err := r.write(ctx, addressConflict(a.BranchID), insertAddressSQL,
		a.ID, a.BranchID, a.AddressLine, a.City, a.Country, a.Latitude, a.Longitude)
	return err
}

func (r *Repo) GetAddress(ctx context.Context, id string) (domain.Address, error) {
	a, err := scanAddress(r.q.QueryRowContext(ctx, selectAddressSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, addressNotFound(id)
	}
	return a, err
}

func (r *Repo) GetAddressByBranch(ctx context.Context, branchID string) (domain.Address, error) {
	a, err := scanAddress(r.q.QueryRowContext(ctx, selectAddressByBranchSQL, branchID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, domain.NotFound("Address not found for branch id: %s", branchID)
	}
	return a, err
}

func (r *Repo) UpdateAddress(ctx context.Context, a domain.Address) error {
	_, err := r.write(ctx, addressConflict(a.BranchID), updateAddressSQL,
		a.BranchID, a.AddressLine, a.City, a.Country, a.Latitude, a.Longitude, a.ID)
	return err
}

func (r *Repo) DeleteAddress(ctx context.Context, id string) error {
	return r.remove(ctx, deleteAddressSQL, id, addressNotFound(id))
}

func (r *Repo) AddressExistsForBranch(ctx context.Context, branchID string) (bool, error) {
	return r.exists(ctx, addressExistsForBranchSQL, branchID)
}

func (r *Repo) ListAddresses(ctx context.Context, q domain.PageQuery) ([]domain.Address, int64, error) {
	s, like := search(q)
	total, err := r.count(ctx, countAddressesSQL, s, like, like, like)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx, listAddressesSQL, s, like, like, like, q.Size, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
