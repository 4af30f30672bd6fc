package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/league"
)

type participantKey struct {
	leagueID string
	userID   string
}

// LeagueRepository keeps leagues, participants and invitations behind one
// lock so every method is atomic.
type LeagueRepository struct {
	mu           sync.RWMutex
	items        map[string]league.League
	orders       []string
	codes        map[string]string
	participants map[participantKey]league.Participant
	invitations  map[participantKey]league.Invitation
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		items:        make(map[string]league.League),
		codes:        make(map[string]string),
		participants: make(map[participantKey]league.Participant),
		invitations:  make(map[participantKey]league.Invitation),
	}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League, admin league.Participant, invitations []league.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[l.Code]; exists {
		return league.ErrDuplicateCode
	}
	if admin.RunID != nil && r.activeLinkLocked(*admin.RunID, l.ID) {
		return league.ErrRunLinked
	}

	r.items[l.ID] = cloneLeague(l)
	r.orders = append(r.orders, l.ID)
	r.codes[l.Code] = l.ID
	r.participants[participantKey{l.ID, admin.UserID}] = cloneParticipant(admin)
	for _, inv := range invitations {
		r.invitations[participantKey{l.ID, inv.UserID}] = inv
	}
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return cloneLeague(l), true, nil
}

func (r *LeagueRepository) GetByCode(_ context.Context, code string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.codes[code]
	if !ok {
		return league.League{}, false, nil
	}
	return cloneLeague(r.items[id]), true, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		if _, ok := r.participants[participantKey{id, userID}]; ok {
			out = append(out, cloneLeague(r.items[id]))
		}
	}
	sortLeaguesByCreatedDesc(out)
	return out, nil
}

func (r *LeagueRepository) ListDue(_ context.Context, now time.Time) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		l := r.items[id]
		if l.IsActive() && !l.EndsAt.After(now) {
			out = append(out, cloneLeague(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndsAt.Before(out[j].EndsAt) })
	return out, nil
}

func (r *LeagueRepository) ReplaceChallenges(_ context.Context, leagueID string, selections []league.Selection, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.ErrLeagueNotFound
	}
	if !l.IsActive() {
		return league.ErrLeagueInactive
	}
	l.Challenges = append([]league.Selection(nil), selections...)
	l.UpdatedAt = updatedAt
	r.items[leagueID] = l
	return nil
}

func (r *LeagueRepository) Complete(_ context.Context, leagueID string, at time.Time) (league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, league.ErrLeagueNotFound
	}
	if !l.IsActive() {
		return league.League{}, league.ErrLeagueInactive
	}
	completedAt := at
	l.Status = league.StatusCompleted
	l.CompletedAt = &completedAt
	l.UpdatedAt = at
	r.items[leagueID] = l
	return cloneLeague(l), nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.ErrLeagueNotFound
	}
	delete(r.items, leagueID)
	delete(r.codes, l.Code)
	for i, id := range r.orders {
		if id == leagueID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	for key := range r.participants {
		if key.leagueID == leagueID {
			delete(r.participants, key)
		}
	}
	for key := range r.invitations {
		if key.leagueID == leagueID {
			delete(r.invitations, key)
		}
	}
	return nil
}

func (r *LeagueRepository) Join(_ context.Context, p league.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[p.LeagueID]
	if !ok {
		return league.ErrLeagueNotFound
	}
	if !l.IsActive() {
		return league.ErrLeagueInactive
	}
	key := participantKey{p.LeagueID, p.UserID}
	if _, exists := r.participants[key]; exists {
		return league.ErrAlreadyParticipant
	}
	if r.countParticipantsLocked(p.LeagueID) >= maxParticipants(l) {
		return league.ErrLeagueFull
	}
	if p.RunID != nil && r.activeLinkLocked(*p.RunID, p.LeagueID) {
		return league.ErrRunLinked
	}

	r.participants[key] = cloneParticipant(p)
	if inv, ok := r.invitations[key]; ok && inv.Status == league.InvitationPending {
		respondedAt := p.JoinedAt
		inv.Status = league.InvitationAccepted
		inv.RespondedAt = &respondedAt
		r.invitations[key] = inv
	}
	return nil
}

func (r *LeagueRepository) RemoveParticipant(_ context.Context, leagueID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.ErrLeagueNotFound
	}
	if !l.IsActive() {
		return league.ErrLeagueInactive
	}
	key := participantKey{leagueID, userID}
	if _, exists := r.participants[key]; !exists {
		return league.ErrNotParticipant
	}
	delete(r.participants, key)
	return nil
}

func (r *LeagueRepository) GetParticipant(_ context.Context, leagueID, userID string) (league.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[participantKey{leagueID, userID}]
	if !ok {
		return league.Participant{}, false, nil
	}
	return cloneParticipant(p), true, nil
}

func (r *LeagueRepository) ListParticipants(_ context.Context, leagueID string) ([]league.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Participant, 0)
	for key, p := range r.participants {
		if key.leagueID == leagueID {
			out = append(out, cloneParticipant(p))
		}
	}
	sortParticipants(out)
	return out, nil
}

func (r *LeagueRepository) LinkRun(_ context.Context, leagueID, userID string, runID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.ErrLeagueNotFound
	}
	if !l.IsActive() {
		return league.ErrLeagueInactive
	}
	key := participantKey{leagueID, userID}
	p, exists := r.participants[key]
	if !exists {
		return league.ErrNotParticipant
	}
	if runID != nil && r.activeLinkLocked(*runID, leagueID) {
		return league.ErrRunLinked
	}

	p.RunID = cloneString(runID)
	r.participants[key] = p
	return nil
}

func (r *LeagueRepository) FindActiveLinks(_ context.Context, runID string) ([]league.RunLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.RunLink, 0)
	for key, p := range r.participants {
		if p.RunID == nil || *p.RunID != runID {
			continue
		}
		if l, ok := r.items[key.leagueID]; ok && l.IsActive() {
			out = append(out, league.RunLink{LeagueID: key.leagueID, UserID: key.userID, RunID: runID})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LeagueID < out[j].LeagueID })
	return out, nil
}

func (r *LeagueRepository) ClearRunLinks(_ context.Context, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.participants {
		if p.RunID == nil || *p.RunID != runID {
			continue
		}
		if l, ok := r.items[key.leagueID]; ok && l.IsActive() {
			continue
		}
		p.RunID = nil
		r.participants[key] = p
	}
	return nil
}

// HasActiveLink reports whether an active league participant holds runID.
func (r *LeagueRepository) HasActiveLink(runID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeLinkLocked(runID, "")
}

func (r *LeagueRepository) ListInvitationsByUser(_ context.Context, userID string, status league.InvitationStatus) ([]league.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Invitation, 0)
	for key, inv := range r.invitations {
		if key.userID != userID {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].LeagueID < out[j].LeagueID
	})
	return out, nil
}

func (r *LeagueRepository) GetInvitation(_ context.Context, leagueID, userID string) (league.Invitation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invitations[participantKey{leagueID, userID}]
	return inv, ok, nil
}

func (r *LeagueRepository) RespondInvitation(_ context.Context, leagueID, userID string, status league.InvitationStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := participantKey{leagueID, userID}
	inv, ok := r.invitations[key]
	if !ok || inv.Status != league.InvitationPending {
		return league.ErrInvitationNotFound
	}
	respondedAt := at
	inv.Status = status
	inv.RespondedAt = &respondedAt
	r.invitations[key] = inv
	return nil
}

// activeLinkLocked reports whether runID is linked in an active league other
// than exceptLeagueID. Callers hold r.mu.
func (r *LeagueRepository) activeLinkLocked(runID, exceptLeagueID string) bool {
	for key, p := range r.participants {
		if key.leagueID == exceptLeagueID || p.RunID == nil || *p.RunID != runID {
			continue
		}
		if l, ok := r.items[key.leagueID]; ok && l.IsActive() {
			return true
		}
	}
	return false
}

func (r *LeagueRepository) countParticipantsLocked(leagueID string) int {
	count := 0
	for key := range r.participants {
		if key.leagueID == leagueID {
			count++
		}
	}
	return count
}

func maxParticipants(l league.League) int {
	if l.MaxParticipants <= 0 || l.MaxParticipants > league.MaxParticipants {
		return league.MaxParticipants
	}
	return l.MaxParticipants
}

func sortLeaguesByCreatedDesc(items []league.League) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func sortParticipants(items []league.Participant) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].JoinedAt.Equal(items[j].JoinedAt) {
			return items[i].JoinedAt.Before(items[j].JoinedAt)
		}
		return items[i].UserID < items[j].UserID
	})
}

func cloneLeague(l league.League) league.League {
	out := l
	out.Challenges = append([]league.Selection(nil), l.Challenges...)
	if l.CompletedAt != nil {
		v := *l.CompletedAt
		out.CompletedAt = &v
	}
	return out
}

func cloneParticipant(p league.Participant) league.Participant {
	out := p
	out.RunID = cloneString(p.RunID)
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
