package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// uniqueViolation is the SQLSTATE raised when the email unique index rejects an insert.
const uniqueViolation = "23505"

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and applies the schema with migrations.Run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	FirstName   string    `gorm:"column:first_name;not null"`
	LastName    string    `gorm:"column:last_name;not null"`
	Email       string    `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	DateCreated time.Time `gorm:"column:date_created;not null;index:idx_users_date_created"`
}

func (userRecord) TableName() string { return "users" }

// Insert stores the user and returns it with the generated identifier.
func (r *Repository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Query counts the filtered set, then reads one page ordered newest first.
func (r *Repository) Query(ctx context.Context, filter domain.Filter, skip, take int) ([]*domain.User, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Scopes(filterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Order("date_created DESC").
		Order("id DESC").
		Offset(skip).
		Limit(take).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, total, nil
}

// EmailExists performs an exact, case-sensitive lookup.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func filterScope(filter domain.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Empty() {
			return db
		}
		pattern := "%" + escapeLike(filter.Text()) + "%"
		if filter.EmailOnly() {
			return db.Where("lower(email) LIKE ?", pattern)
		}
		if filter.MatchesFullName() {
			return db.Where(
				"lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(first_name || ' ' || last_name) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		return db.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ?", pattern, pattern)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		DateCreated: user.DateCreated.UTC(),
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		DateCreated: r.DateCreated.UTC(),
	}
}
