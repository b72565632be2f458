package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cove-house/waitlist-service/internal/domain"
)

// WaitlistRepository encapsulates waitlist persistence. Demand and supply
// entries live in separate tables but share one UUID id space. The
// repository is a dumb persistence layer: state checks belong to the caller,
// with the exception of Approve, which is a conditional update so that
// concurrent approvals collapse into a single atomic compare-and-set.
type WaitlistRepository interface {
	Insert(ctx context.Context, entry *domain.WaitlistEntry) error
	GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.WaitlistEntry, error)
	// Approve transitions pending -> approved. It returns false when the row
	// exists but was not pending anymore (or does not exist at all).
	Approve(ctx context.Context, kind domain.Kind, id string, approvedAt time.Time) (bool, error)
	ListByKind(ctx context.Context, kind domain.Kind) ([]domain.WaitlistEntry, error)
}

type waitlistRepository struct {
	pool *pgxpool.Pool
}

// NewWaitlistRepository instantiates the repository.
func NewWaitlistRepository(pool *pgxpool.Pool) WaitlistRepository {
	return &waitlistRepository{pool: pool}
}

func tableFor(kind domain.Kind) string {
	if kind == domain.KindSupply {
		return "supply_waitlist"
	}
	return "demand_waitlist"
}

func (r *waitlistRepository) Insert(ctx context.Context, entry *domain.WaitlistEntry) error {
	entry.ID = uuid.NewString()
	switch entry.Kind {
	case domain.KindSupply:
		return r.insertSupply(ctx, entry)
	default:
		return r.insertDemand(ctx, entry)
	}
}

func (r *waitlistRepository) insertDemand(ctx context.Context, entry *domain.WaitlistEntry) error {
	const query = `
        INSERT INTO demand_waitlist (
            id, name, email, phone, college, grad_year, linkedin, instagram, twitter,
            status, target_cities, move_in_month, company, sector, housing_search_type,
            roommate_preferences, other_roommate_preference, budget, concerns, other_concern,
            contact_pref, referrer_id, approval_status
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
        RETURNING created_at`
	d := entry.Demand
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		d.Name,
		entry.Email,
		entry.Phone,
		d.College,
		d.GradYear,
		d.Linkedin,
		d.Instagram,
		d.Twitter,
		string(d.Status),
		d.TargetCities,
		d.MoveInMonth,
		d.Company,
		d.Sector,
		string(d.HousingSearchType),
		d.RoommatePreferences,
		d.OtherRoommatePreference,
		d.Budget,
		d.Concerns,
		d.OtherConcern,
		contactPrefStrings(d.ContactPref),
		entry.ReferrerID,
		string(entry.ApprovalStatus),
	).Scan(&entry.CreatedAt)
}

func (r *waitlistRepository) insertSupply(ctx context.Context, entry *domain.WaitlistEntry) error {
	const query = `
        INSERT INTO supply_waitlist (
            id, name, email, phone, college, grad_year, linkedin, instagram, twitter,
            address, city, rent, rooms, listing_link, listing_photos, attachment_url,
            concerns, other_concern, contact_pref, willing_to_verify, approval_status
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        RETURNING created_at`
	s := entry.Supply
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		s.Name,
		entry.Email,
		entry.Phone,
		s.College,
		s.GradYear,
		s.Linkedin,
		s.Instagram,
		s.Twitter,
		s.Address,
		s.City,
		s.Rent,
		s.Rooms,
		s.ListingLink,
		s.ListingPhotos,
		s.AttachmentURL,
		s.Concerns,
		s.OtherConcern,
		contactPrefStrings(s.ContactPref),
		s.WillingToVerify,
		string(entry.ApprovalStatus),
	).Scan(&entry.CreatedAt)
}

func (r *waitlistRepository) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.WaitlistEntry, error) {
	if kind == domain.KindSupply {
		return r.fetchSupply(ctx, `WHERE id=$1`, id)
	}
	return r.fetchDemand(ctx, `WHERE id=$1`, id)
}

func (r *waitlistRepository) Approve(ctx context.Context, kind domain.Kind, id string, approvedAt time.Time) (bool, error) {
	query := `UPDATE ` + tableFor(kind) + `
        SET approval_status=$2, approved_at=$3
        WHERE id=$1 AND approval_status=$4`
	cmd, err := r.pool.Exec(ctx, query, id,
		string(domain.ApprovalStatusApproved), approvedAt, string(domain.ApprovalStatusPending))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *waitlistRepository) ListByKind(ctx context.Context, kind domain.Kind) ([]domain.WaitlistEntry, error) {
	if kind == domain.KindSupply {
		return r.listSupply(ctx)
	}
	return r.listDemand(ctx)
}

const demandColumns = `
        id, name, email, phone, college, grad_year, linkedin, instagram, twitter,
        status, target_cities, move_in_month, company, sector, housing_search_type,
        roommate_preferences, other_roommate_preference, budget, concerns, other_concern,
        contact_pref, referrer_id, approval_status, approved_at, created_at`

func (r *waitlistRepository) fetchDemand(ctx context.Context, where string, args ...any) (*domain.WaitlistEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+demandColumns+` FROM demand_waitlist `+where, args...)
	return scanDemand(row)
}

func (r *waitlistRepository) listDemand(ctx context.Context) ([]domain.WaitlistEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+demandColumns+` FROM demand_waitlist ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WaitlistEntry
	for rows.Next() {
		entry, err := scanDemand(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func scanDemand(row pgx.Row) (*domain.WaitlistEntry, error) {
	entry := domain.WaitlistEntry{Kind: domain.KindDemand, Demand: &domain.DemandDetails{}}
	d := entry.Demand
	var status, searchType, approvalStatus string
	var contactPref []string
	if err := row.Scan(
		&entry.ID,
		&d.Name,
		&entry.Email,
		&entry.Phone,
		&d.College,
		&d.GradYear,
		&d.Linkedin,
		&d.Instagram,
		&d.Twitter,
		&status,
		&d.TargetCities,
		&d.MoveInMonth,
		&d.Company,
		&d.Sector,
		&searchType,
		&d.RoommatePreferences,
		&d.OtherRoommatePreference,
		&d.Budget,
		&d.Concerns,
		&d.OtherConcern,
		&contactPref,
		&entry.ReferrerID,
		&approvalStatus,
		&entry.ApprovedAt,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = domain.DemandStatus(status)
	d.HousingSearchType = domain.HousingSearchType(searchType)
	d.ContactPref = contactPrefMethods(contactPref)
	entry.ApprovalStatus = domain.ApprovalStatus(approvalStatus)
	return &entry, nil
}

const supplyColumns = `
        id, name, email, phone, college, grad_year, linkedin, instagram, twitter,
        address, city, rent, rooms, listing_link, listing_photos, attachment_url,
        concerns, other_concern, contact_pref, willing_to_verify,
        approval_status, approved_at, created_at`

func (r *waitlistRepository) fetchSupply(ctx context.Context, where string, args ...any) (*domain.WaitlistEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supply_waitlist `+where, args...)
	return scanSupply(row)
}

func (r *waitlistRepository) listSupply(ctx context.Context) ([]domain.WaitlistEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplyColumns+` FROM supply_waitlist ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WaitlistEntry
	for rows.Next() {
		entry, err := scanSupply(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func scanSupply(row pgx.Row) (*domain.WaitlistEntry, error) {
	entry := domain.WaitlistEntry{Kind: domain.KindSupply, Supply: &domain.SupplyDetails{}}
	s := entry.Supply
	var approvalStatus string
	var contactPref []string
	if err := row.Scan(
		&entry.ID,
		&s.Name,
		&entry.Email,
		&entry.Phone,
		&s.College,
		&s.GradYear,
		&s.Linkedin,
		&s.Instagram,
		&s.Twitter,
		&s.Address,
		&s.City,
		&s.Rent,
		&s.Rooms,
		&s.ListingLink,
		&s.ListingPhotos,
		&s.AttachmentURL,
		&s.Concerns,
		&s.OtherConcern,
		&contactPref,
		&s.WillingToVerify,
		&approvalStatus,
		&entry.ApprovedAt,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.ContactPref = contactPrefMethods(contactPref)
	entry.ApprovalStatus = domain.ApprovalStatus(approvalStatus)
	return &entry, nil
}

func contactPrefStrings(methods []domain.ContactMethod) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}

func contactPrefMethods(values []string) []domain.ContactMethod {
	out := make([]domain.ContactMethod, 0, len(values))
	for _, v := range values {
		out = append(out, domain.ContactMethod(v))
	}
	return out
}
