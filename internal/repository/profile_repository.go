package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/arlen/devconnector/internal/model"
)

// ErrProfileNotFound is returned when no profile row matches the lookup.
var ErrProfileNotFound = errors.New("profile not found")

// ErrHandleExists is returned when a profile upsert hits the unique
// handle index.
var ErrHandleExists = errors.New("handle already exists")

// ErrEntryNotFound is returned when an experience or education entry does
// not exist under the caller's profile.
var ErrEntryNotFound = errors.New("entry not found")

// ProfileRepo persists developer profiles together with their experience
// and education child rows.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileCols = `p.id,p.user_id,p.handle,p.status,p.skills,p.company,p.website,p.location,p.bio,
p.github_username,p.youtube,p.twitter,p.facebook,p.linkedin,p.instagram,p.created_at,p.updated_at,
u.id,u.name,u.avatar`

const profileSelect = "SELECT " + profileCols + " FROM profiles p JOIN users u ON u.id=p.user_id"

// GetByUserID fetches the profile owned by the given user, with children.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	return r.getOne(ctx, profileSelect+" WHERE p.user_id=? LIMIT 1", userID)
}

// GetByHandle fetches a profile by its unique handle, with children.
func (r *ProfileRepo) GetByHandle(ctx context.Context, handle string) (model.Profile, error) {
	return r.getOne(ctx, profileSelect+" WHERE p.handle=? LIMIT 1", strings.TrimSpace(handle))
}

func (r *ProfileRepo) getOne(ctx context.Context, query string, arg any) (model.Profile, error) {
	row := r.DB.QueryRowContext(ctx, query, arg)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	if err := r.loadChildren(ctx, &p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// List returns all profiles, newest first, each with children loaded.
func (r *ProfileRepo) List(ctx context.Context) ([]model.Profile, error) {
	return r.list(ctx, profileSelect+" ORDER BY p.created_at DESC, p.id DESC")
}

// Search filters profiles by skill and/or location substring. Empty
// arguments match everything, so Search("", "") is equivalent to List.
func (r *ProfileRepo) Search(ctx context.Context, skill, location string) ([]model.Profile, error) {
	query := profileSelect + " WHERE 1=1"
	args := []any{}
	if s := strings.TrimSpace(skill); s != "" {
		query += " AND LOWER(p.skills) LIKE ?"
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if l := strings.TrimSpace(location); l != "" {
		query += " AND LOWER(p.location) LIKE ?"
		args = append(args, "%"+strings.ToLower(l)+"%")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"
	return r.list(ctx, query, args...)
}

func (r *ProfileRepo) list(ctx context.Context, query string, args ...any) ([]model.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Upsert creates the caller's profile or updates it in place. A handle
// already claimed by another user yields ErrHandleExists.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.Profile) (created bool, err error) {
	now := time.Now().UTC()
	skills := strings.Join(p.Skills, ",")

	var existingID uint64
	err = r.DB.QueryRowContext(ctx, "SELECT id FROM profiles WHERE user_id=? LIMIT 1", p.UserID).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := r.DB.ExecContext(ctx, `INSERT INTO profiles
			(user_id,handle,status,skills,company,website,location,bio,github_username,
			 youtube,twitter,facebook,linkedin,instagram,created_at,updated_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			p.UserID, p.Handle, p.Status, skills, p.Company, p.Website, p.Location, p.Bio, p.GitHubUsername,
			p.Social.YouTube, p.Social.Twitter, p.Social.Facebook, p.Social.LinkedIn, p.Social.Instagram, now, now)
		if err != nil {
			if isDuplicate(err) {
				return false, ErrHandleExists
			}
			return false, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return false, err
		}
		p.ID = uint64(id)
		p.CreatedAt, p.UpdatedAt = now, now
		return true, nil
	case err != nil:
		return false, err
	}

	_, err = r.DB.ExecContext(ctx, `UPDATE profiles SET
		handle=?,status=?,skills=?,company=?,website=?,location=?,bio=?,github_username=?,
		youtube=?,twitter=?,facebook=?,linkedin=?,instagram=?,updated_at=?
		WHERE id=?`,
		p.Handle, p.Status, skills, p.Company, p.Website, p.Location, p.Bio, p.GitHubUsername,
		p.Social.YouTube, p.Social.Twitter, p.Social.Facebook, p.Social.LinkedIn, p.Social.Instagram, now, existingID)
	if err != nil {
		if isDuplicate(err) {
			return false, ErrHandleExists
		}
		return false, err
	}
	p.ID = existingID
	p.UpdatedAt = now
	return false, nil
}

// AddExperience prepends a work history entry to the user's profile.
func (r *ProfileRepo) AddExperience(ctx context.Context, userID uint64, e *model.Experience) error {
	profileID, err := r.profileID(ctx, userID)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO experiences
		(profile_id,title,company,location,from_date,to_date,current,description,created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		profileID, e.Title, e.Company, e.Location, e.From, e.To, e.Current, e.Description, time.Now().UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.ProfileID = profileID
	return nil
}

// DeleteExperience removes one entry; ErrEntryNotFound when the entry is
// missing or belongs to a different user's profile.
func (r *ProfileRepo) DeleteExperience(ctx context.Context, userID, expID uint64) error {
	return r.deleteChild(ctx, "experiences", userID, expID)
}

// AddEducation prepends a study history entry to the user's profile.
func (r *ProfileRepo) AddEducation(ctx context.Context, userID uint64, e *model.Education) error {
	profileID, err := r.profileID(ctx, userID)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO educations
		(profile_id,school,degree,field_of_study,from_date,to_date,current,description,created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		profileID, e.School, e.Degree, e.FieldOfStudy, e.From, e.To, e.Current, e.Description, time.Now().UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.ProfileID = profileID
	return nil
}

// DeleteEducation removes one entry with the same semantics as
// DeleteExperience.
func (r *ProfileRepo) DeleteEducation(ctx context.Context, userID, eduID uint64) error {
	return r.deleteChild(ctx, "educations", userID, eduID)
}

// DeleteByUserID removes the user's profile together with its experience
// and education rows. Missing profile is not an error so the account
// cascade stays idempotent.
func (r *ProfileRepo) DeleteByUserID(ctx context.Context, userID uint64) error {
	profileID, err := r.profileID(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM experiences WHERE profile_id=?", profileID); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM educations WHERE profile_id=?", profileID); err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM profiles WHERE id=?", profileID)
	return err
}

func (r *ProfileRepo) profileID(ctx context.Context, userID uint64) (uint64, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM profiles WHERE user_id=? LIMIT 1", userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProfileNotFound
	}
	return id, err
}

func (r *ProfileRepo) deleteChild(ctx context.Context, table string, userID, entryID uint64) error {
	profileID, err := r.profileID(ctx, userID)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id=? AND profile_id=?", entryID, profileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *ProfileRepo) loadChildren(ctx context.Context, p *model.Profile) error {
	p.Experience = []model.Experience{}
	p.Education = []model.Education{}

	rows, err := r.DB.QueryContext(ctx, `SELECT id,profile_id,title,company,location,from_date,to_date,current,description
		FROM experiences WHERE profile_id=? ORDER BY from_date DESC, id DESC`, p.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Title, &e.Company, &e.Location, &e.From, &e.To, &e.Current, &e.Description); err != nil {
			rows.Close()
			return err
		}
		p.Experience = append(p.Experience, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.QueryContext(ctx, `SELECT id,profile_id,school,degree,field_of_study,from_date,to_date,current,description
		FROM educations WHERE profile_id=? ORDER BY from_date DESC, id DESC`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e model.Education
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.School, &e.Degree, &e.FieldOfStudy, &e.From, &e.To, &e.Current, &e.Description); err != nil {
			return err
		}
		p.Education = append(p.Education, e)
	}
	return rows.Err()
}

// scanProfile reads one profile row (profileCols order) from a row scanner.
func scanProfile(s interface{ Scan(...any) error }) (model.Profile, error) {
	var p model.Profile
	var u model.UserRef
	var skills string
	err := s.Scan(&p.ID, &p.UserID, &p.Handle, &p.Status, &skills, &p.Company, &p.Website, &p.Location, &p.Bio,
		&p.GitHubUsername, &p.Social.YouTube, &p.Social.Twitter, &p.Social.Facebook, &p.Social.LinkedIn,
		&p.Social.Instagram, &p.CreatedAt, &p.UpdatedAt, &u.ID, &u.Name, &u.Avatar)
	if err != nil {
		return model.Profile{}, err
	}
	p.Skills = splitSkills(skills)
	p.User = &u
	return p, nil
}

func splitSkills(csv string) []string {
	out := []string{}
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
