package moderation_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"github.com/wardenbot/warden/internal/moderation"
)

type memberKey struct {
	guildID uint64
	userID  uint64
}

// fakeInfractionStore is an in-memory InfractionStore.
type fakeInfractionStore struct {
	mu        sync.Mutex
	nextID    int64
	records   []*types.Infraction
	insertErr error
}

func (s *fakeInfractionStore) Insert(_ context.Context, record *types.Infraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return s.insertErr
	}

	s.nextID++
	record.ID = s.nextID

	clone := *record
	s.records = append(s.records, &clone)

	return nil
}

func (s *fakeInfractionStore) CountQualifying(
	_ context.Context, guildID, userID uint64, kind enum.InfractionKind, since time.Time,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, r := range s.records {
		if r.GuildID == guildID && r.UserID == userID && r.Kind == kind && !r.CreatedAt.Before(since) {
			count++
		}
	}

	return count, nil
}

func (s *fakeInfractionStore) GetOrdered(
	_ context.Context, guildID, userID uint64, newestFirst bool,
) ([]*types.Infraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*types.Infraction
	for _, r := range s.records {
		if r.GuildID == guildID && r.UserID == userID {
			clone := *r
			out = append(out, &clone)
		}
	}

	if newestFirst {
		slices.Reverse(out)
	}

	return out, nil
}

func (s *fakeInfractionStore) DeleteByID(_ context.Context, guildID uint64, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.GuildID == guildID && r.ID == id {
			s.records = slices.Delete(s.records, i, i+1)
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeInfractionStore) DeleteAllForUser(_ context.Context, guildID, userID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	s.records = slices.DeleteFunc(s.records, func(r *types.Infraction) bool {
		if r.GuildID == guildID && r.UserID == userID {
			removed++
			return true
		}
		return false
	})

	return removed, nil
}

func (s *fakeInfractionStore) kinds() []enum.InfractionKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]enum.InfractionKind, len(s.records))
	for i, r := range s.records {
		out[i] = r.Kind
	}

	return out
}

// fakeEscalationRuleStore is an in-memory EscalationRuleStore. List returns
// rules in insertion order so evaluator ordering is exercised.
type fakeEscalationRuleStore struct {
	mu     sync.Mutex
	nextID int64
	rules  []*types.EscalationRule
}

func (s *fakeEscalationRuleStore) Insert(_ context.Context, rule *types.EscalationRule) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rules {
		if r.GuildID == rule.GuildID &&
			r.WarnThreshold == rule.WarnThreshold &&
			r.WindowSeconds == rule.WindowSeconds {
			return false, nil
		}
	}

	s.nextID++
	rule.ID = s.nextID

	clone := *rule
	s.rules = append(s.rules, &clone)

	return true, nil
}

func (s *fakeEscalationRuleStore) List(_ context.Context, guildID uint64) ([]*types.EscalationRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*types.EscalationRule
	for _, r := range s.rules {
		if r.GuildID == guildID {
			clone := *r
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (s *fakeEscalationRuleStore) Delete(
	_ context.Context, guildID uint64, warnThreshold int, windowSeconds int64,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rules {
		if r.GuildID == guildID && r.WarnThreshold == warnThreshold && r.WindowSeconds == windowSeconds {
			s.rules = slices.Delete(s.rules, i, i+1)
			return true, nil
		}
	}

	return false, nil
}

// fakeActiveBanStore is an in-memory ActiveBanStore with the same
// no-expiry-wins conflict rule as the real upsert.
type fakeActiveBanStore struct {
	mu   sync.Mutex
	bans map[memberKey]*types.ActiveBan
}

func newFakeActiveBanStore() *fakeActiveBanStore {
	return &fakeActiveBanStore{bans: make(map[memberKey]*types.ActiveBan)}
}

func (s *fakeActiveBanStore) Get(_ context.Context, guildID, userID uint64) (*types.ActiveBan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ban, ok := s.bans[memberKey{guildID, userID}]
	if !ok {
		return nil, nil
	}

	clone := *ban

	return &clone, nil
}

func (s *fakeActiveBanStore) UpsertIfNotPermanent(_ context.Context, ban *types.ActiveBan) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{ban.GuildID, ban.UserID}
	if existing, ok := s.bans[key]; ok && existing.ExpiresAt == nil {
		return false, nil
	}

	clone := *ban
	s.bans[key] = &clone

	return true, nil
}

func (s *fakeActiveBanStore) Delete(_ context.Context, guildID, userID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{guildID, userID}
	if _, ok := s.bans[key]; !ok {
		return false, nil
	}

	delete(s.bans, key)

	return true, nil
}

func (s *fakeActiveBanStore) ListExpired(_ context.Context, now time.Time, limit int) ([]*types.ActiveBan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*types.ActiveBan
	for _, ban := range s.bans {
		if ban.ExpiresAt != nil && ban.ExpiresAt.Before(now) {
			clone := *ban
			out = append(out, &clone)
		}
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

// fakeStaffStrikeStore is an in-memory StaffStrikeStore.
type fakeStaffStrikeStore struct {
	mu      sync.Mutex
	nextID  int64
	strikes []*types.StaffStrike
}

func (s *fakeStaffStrikeStore) Insert(_ context.Context, strike *types.StaffStrike) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	strike.ID = s.nextID

	clone := *strike
	s.strikes = append(s.strikes, &clone)

	return nil
}

func (s *fakeStaffStrikeStore) CountUnexpired(
	_ context.Context, guildID, userID uint64, now time.Time,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, strike := range s.strikes {
		if strike.GuildID == guildID && strike.UserID == userID && strike.ExpiresAt.After(now) {
			count++
		}
	}

	return count, nil
}

func (s *fakeStaffStrikeStore) DeleteAllForUser(_ context.Context, guildID, userID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	s.strikes = slices.DeleteFunc(s.strikes, func(strike *types.StaffStrike) bool {
		if strike.GuildID == guildID && strike.UserID == userID {
			removed++
			return true
		}
		return false
	})

	return removed, nil
}

// fakeStrikeRuleStore is an in-memory StrikeRuleStore.
type fakeStrikeRuleStore struct {
	mu     sync.Mutex
	nextID int64
	rules  []*types.StrikeRule
}

func (s *fakeStrikeRuleStore) GetByExactCount(
	_ context.Context, guildID uint64, count int,
) (*types.StrikeRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rules {
		if r.GuildID == guildID && r.StrikeCount == count {
			clone := *r
			return &clone, nil
		}
	}

	return nil, nil
}

func (s *fakeStrikeRuleStore) Insert(_ context.Context, rule *types.StrikeRule) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rules {
		if r.GuildID == rule.GuildID && r.StrikeCount == rule.StrikeCount {
			return false, nil
		}
	}

	s.nextID++
	rule.ID = s.nextID

	clone := *rule
	s.rules = append(s.rules, &clone)

	return true, nil
}

func (s *fakeStrikeRuleStore) Delete(_ context.Context, guildID uint64, count int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rules {
		if r.GuildID == guildID && r.StrikeCount == count {
			s.rules = slices.Delete(s.rules, i, i+1)
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeStrikeRuleStore) List(_ context.Context, guildID uint64) ([]*types.StrikeRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*types.StrikeRule
	for _, r := range s.rules {
		if r.GuildID == guildID {
			clone := *r
			out = append(out, &clone)
		}
	}

	return out, nil
}

type roleChange struct {
	userID uint64
	roleID uint64
}

// fakeDirectory is an in-memory GuildDirectory that records side effects.
type fakeDirectory struct {
	mu           sync.Mutex
	members      map[memberKey]*moderation.Member
	platformBans map[memberKey]*moderation.PlatformBan
	ladder       []moderation.Role

	timeouts     []uint64
	bansCreated  []uint64
	bansRemoved  []uint64
	rolesAdded   []roleChange
	rolesRemoved []roleChange

	createBanErr error
	getBanErr    error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		members:      make(map[memberKey]*moderation.Member),
		platformBans: make(map[memberKey]*moderation.PlatformBan),
	}
}

func (d *fakeDirectory) addMember(m *moderation.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[memberKey{m.GuildID, m.UserID}] = m
}

func (d *fakeDirectory) Member(_ context.Context, guildID, userID uint64) (*moderation.Member, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.members[memberKey{guildID, userID}]
	if !ok {
		return nil, nil
	}

	clone := *m
	clone.RoleIDs = slices.Clone(m.RoleIDs)

	return &clone, nil
}

func (d *fakeDirectory) ApplyTimeout(
	_ context.Context, guildID, userID uint64, duration time.Duration, _ string,
) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timeouts = append(d.timeouts, userID)

	if m, ok := d.members[memberKey{guildID, userID}]; ok {
		until := time.Now().Add(duration)
		m.TimedOutUntil = &until
	}

	return nil
}

func (d *fakeDirectory) RemoveTimeout(_ context.Context, guildID, userID uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if m, ok := d.members[memberKey{guildID, userID}]; ok {
		m.TimedOutUntil = nil
	}

	return nil
}

func (d *fakeDirectory) CreateBan(
	_ context.Context, guildID, userID uint64, reason string, _ time.Duration,
) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.createBanErr != nil {
		return d.createBanErr
	}

	d.bansCreated = append(d.bansCreated, userID)
	d.platformBans[memberKey{guildID, userID}] = &moderation.PlatformBan{UserID: userID, Reason: reason}

	return nil
}

func (d *fakeDirectory) RemoveBan(_ context.Context, guildID, userID uint64, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.bansRemoved = append(d.bansRemoved, userID)
	delete(d.platformBans, memberKey{guildID, userID})

	return nil
}

func (d *fakeDirectory) GetBan(_ context.Context, guildID, userID uint64) (*moderation.PlatformBan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.getBanErr != nil {
		return nil, d.getBanErr
	}

	return d.platformBans[memberKey{guildID, userID}], nil
}

func (d *fakeDirectory) StaffLadder(_ context.Context, _ uint64) ([]moderation.Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.ladder), nil
}

func (d *fakeDirectory) AddRole(_ context.Context, guildID, userID, roleID uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rolesAdded = append(d.rolesAdded, roleChange{userID, roleID})

	if m, ok := d.members[memberKey{guildID, userID}]; ok {
		m.RoleIDs = append(m.RoleIDs, roleID)
	}

	return nil
}

func (d *fakeDirectory) RemoveRole(_ context.Context, guildID, userID, roleID uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rolesRemoved = append(d.rolesRemoved, roleChange{userID, roleID})

	if m, ok := d.members[memberKey{guildID, userID}]; ok {
		m.RoleIDs = slices.DeleteFunc(m.RoleIDs, func(id uint64) bool { return id == roleID })
	}

	return nil
}

// fakeNotifier records delivered notices.
type fakeNotifier struct {
	mu    sync.Mutex
	logs  []string
	dms   map[uint64][]string
	dmErr error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{dms: make(map[uint64][]string)}
}

func (n *fakeNotifier) LogAction(_ context.Context, _ uint64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logs = append(n.logs, message)

	return nil
}

func (n *fakeNotifier) DirectMessage(_ context.Context, userID uint64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.dmErr != nil {
		return n.dmErr
	}

	n.dms[userID] = append(n.dms[userID], message)

	return nil
}
