package profiles

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	resumes  map[string][]Resume // ownerID -> resumes in insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		profiles: make(map[string]Profile),
		resumes:  make(map[string][]Resume),
	}
}

func (r *MemoryRepo) CreateProfile(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UserID]; ok {
		return ErrProfileExists
	}
	p.Resumes = nil
	r.profiles[p.UserID] = p
	return nil
}

func (r *MemoryRepo) GetProfile(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (r *MemoryRepo) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.EqualFold(r.profiles[id].Email, email) {
			return r.profiles[id], nil
		}
	}
	return Profile{}, ErrProfileNotFound
}

func (r *MemoryRepo) UpdateProfile(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UserID]; !ok {
		return ErrProfileNotFound
	}
	p.Resumes = nil
	r.profiles[p.UserID] = p
	return nil
}

func (r *MemoryRepo) DeleteProfile(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return ErrProfileNotFound
	}
	delete(r.profiles, userID)
	delete(r.resumes, userID)
	return nil
}

func (r *MemoryRepo) AddResume(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[res.OwnerID]; !ok {
		return ErrProfileNotFound
	}
	for _, existing := range r.resumes[res.OwnerID] {
		if existing.ID == res.ID {
			return ErrDuplicateResume
		}
	}
	res.Analysis = res.Analysis.Clone()
	r.resumes[res.OwnerID] = append(r.resumes[res.OwnerID], res)
	return nil
}

func (r *MemoryRepo) GetResume(ctx context.Context, ownerID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.resumes[ownerID] {
		if res.ID == resumeID {
			res.Analysis = res.Analysis.Clone()
			return res, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (r *MemoryRepo) FindResumeOwners(ctx context.Context, resumeID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var owners []string
	for owner, list := range r.resumes {
		for _, res := range list {
			if res.ID == resumeID {
				owners = append(owners, owner)
				break
			}
		}
	}
	sort.Strings(owners)
	return owners, nil
}

func (r *MemoryRepo) ListResumes(ctx context.Context, ownerID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.resumes[ownerID]
	out := make([]Resume, len(list))
	for i, res := range list {
		res.Analysis = res.Analysis.Clone()
		out[i] = res
	}
	return out, nil
}

func (r *MemoryRepo) SetExtraction(ctx context.Context, ownerID, resumeID string, status ExtractionStatus, text, errMsg string) error {
	return r.update(ctx, ownerID, resumeID, func(res *Resume) {
		res.ExtractionStatus = status
		res.ExtractedText = text
		res.ExtractionError = errMsg
	})
}

func (r *MemoryRepo) RecordScore(ctx context.Context, ownerID, resumeID string, result ScoreResult) error {
	if result.AnalyzedAt.IsZero() {
		result.AnalyzedAt = time.Now().UTC()
	}
	return r.update(ctx, ownerID, resumeID, func(res *Resume) {
		res.Analysis = result.Clone()
	})
}

func (r *MemoryRepo) DeleteResume(ctx context.Context, ownerID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.resumes[ownerID]
	for i := range list {
		if list[i].ID == resumeID {
			r.resumes[ownerID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) update(ctx context.Context, ownerID, resumeID string, fn func(*Resume)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.resumes[ownerID]
	for i := range list {
		if list[i].ID == resumeID {
			fn(&list[i])
			return nil
		}
	}
	return ErrNotFound
}
