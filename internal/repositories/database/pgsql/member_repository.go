package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	"github.com/hearthsplit/household_ledger_app/internal/models"
	"github.com/hearthsplit/household_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

type PgxMemberRepository struct {
	db *pgxpool.Pool
}

func newPgxMemberRepository(db *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{db: db}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func (r *PgxMemberRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	modelHousehold := mapping.ToModelHousehold(household)
	query := `
        INSERT INTO households (household_id, name, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (household_id) DO UPDATE SET
            name = EXCLUDED.name,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by;
    `
	_, err := r.db.Exec(ctx, query,
		modelHousehold.HouseholdID,
		modelHousehold.Name,
		modelHousehold.CreatedAt,
		modelHousehold.CreatedBy,
		modelHousehold.LastUpdatedAt,
		modelHousehold.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save household: %w", err)
	}
	return nil
}

func (r *PgxMemberRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	query := `
		SELECT household_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM households
		WHERE household_id = $1;
	`
	var modelHousehold models.Household
	err := r.db.QueryRow(ctx, query, householdID).Scan(
		&modelHousehold.HouseholdID,
		&modelHousehold.Name,
		&modelHousehold.CreatedAt,
		&modelHousehold.CreatedBy,
		&modelHousehold.LastUpdatedAt,
		&modelHousehold.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find household by ID %s: %w", householdID, err)
	}

	domainHousehold := mapping.ToDomainHousehold(modelHousehold)
	return &domainHousehold, nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `
		SELECT member_id, household_id, display_name, email, is_active, password_hash,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM members
		WHERE member_id = $1;
	`
	return r.scanMemberRow(r.db.QueryRow(ctx, query, memberID), "ID "+memberID)
}

func (r *PgxMemberRepository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `
		SELECT member_id, household_id, display_name, email, is_active, password_hash,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM members
		WHERE email = $1;
	`
	return r.scanMemberRow(r.db.QueryRow(ctx, query, email), "email")
}

func (r *PgxMemberRepository) scanMemberRow(row pgx.Row, ref string) (*domain.Member, error) {
	var modelMember models.Member
	err := row.Scan(
		&modelMember.MemberID,
		&modelMember.HouseholdID,
		&modelMember.DisplayName,
		&modelMember.Email,
		&modelMember.IsActive,
		&modelMember.PasswordHash,
		&modelMember.CreatedAt,
		&modelMember.CreatedBy,
		&modelMember.LastUpdatedAt,
		&modelMember.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by %s: %w", ref, err)
	}
	domainMember := mapping.ToDomainMember(modelMember)
	return &domainMember, nil
}

func (r *PgxMemberRepository) ListMembersByHousehold(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error) {
	query := `
        SELECT member_id, household_id, display_name, email, is_active, password_hash,
               created_at, created_by, last_updated_at, last_updated_by
        FROM members
        WHERE household_id = $1 AND ($2 = false OR is_active = true)
        ORDER BY member_id;
    `
	rows, err := r.db.Query(ctx, query, householdID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	domainMembers := []domain.Member{}
	for rows.Next() {
		var modelMember models.Member
		err := rows.Scan(
			&modelMember.MemberID,
			&modelMember.HouseholdID,
			&modelMember.DisplayName,
			&modelMember.Email,
			&modelMember.IsActive,
			&modelMember.PasswordHash,
			&modelMember.CreatedAt,
			&modelMember.CreatedBy,
			&modelMember.LastUpdatedAt,
			&modelMember.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		domainMembers = append(domainMembers, mapping.ToDomainMember(modelMember))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", rows.Err())
	}
	return domainMembers, nil
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	modelMember := mapping.ToModelMember(member)
	query := `
        INSERT INTO members (member_id, household_id, display_name, email, is_active, password_hash,
                             created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.db.Exec(ctx, query,
		modelMember.MemberID,
		modelMember.HouseholdID,
		modelMember.DisplayName,
		modelMember.Email,
		modelMember.IsActive,
		modelMember.PasswordHash,
		modelMember.CreatedAt,
		modelMember.CreatedBy,
		modelMember.LastUpdatedAt,
		modelMember.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("member email already registered: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	modelMember := mapping.ToModelMember(member)
	query := `
        UPDATE members
        SET display_name = $1, email = $2, password_hash = $3, last_updated_at = $4, last_updated_by = $5
        WHERE member_id = $6;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		modelMember.DisplayName,
		modelMember.Email,
		modelMember.PasswordHash,
		modelMember.LastUpdatedAt,
		modelMember.LastUpdatedBy,
		modelMember.MemberID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("member email already registered: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute update member query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("member not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxMemberRepository) SetMemberActive(ctx context.Context, memberID string, active bool, updatedBy string, updatedAt time.Time) error {
	query := `
        UPDATE members
        SET is_active = $1, last_updated_at = $2, last_updated_by = $3
        WHERE member_id = $4;
    `
	cmdTag, err := r.db.Exec(ctx, query, active, updatedAt, updatedBy, memberID)
	if err != nil {
		return fmt.Errorf("failed to set member active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("member not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
