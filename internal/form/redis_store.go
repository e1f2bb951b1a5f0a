package form

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kmohsen11/Argos/internal/entity"
)

const (
	formKeyPrefix   = "preorder:form:"
	DefaultLockTTL  = 15 * time.Second
	redisTimeFormat = time.RFC3339Nano
)

// Script results.
const (
	scriptOK         = 0
	scriptInFlight   = 1
	scriptNeedsReset = 2
	scriptNotFound   = -1
)

// beginScript moves a form to submitting. A submitting form whose lock has
// expired is treated as abandoned and may be taken over.
var beginScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
local phase = redis.call('HGET', KEYS[1], 'phase')
if phase == 'submitting' and redis.call('EXISTS', KEYS[2]) == 1 then return 1 end
if phase == 'succeeded' then return 2 end
redis.call('HSET', KEYS[1], 'phase', 'submitting', 'errorMessage', '', 'field', '', 'warning', '', 'orderId', '', 'updatedAt', ARGV[1])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 0
`)

var completeScript = redis.NewScript(`
local owner = redis.call('GET', KEYS[2])
if owner and owner ~= ARGV[1] then return 1 end
if redis.call('HGET', KEYS[1], 'phase') ~= 'submitting' then return 1 end
redis.call('HSET', KEYS[1], 'phase', ARGV[2], 'errorMessage', ARGV[3], 'field', ARGV[4], 'warning', ARGV[5], 'orderId', ARGV[6], 'updatedAt', ARGV[7])
redis.call('DEL', KEYS[2])
redis.call('PEXPIRE', KEYS[1], ARGV[8])
return 0
`)

var resetScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
if redis.call('HGET', KEYS[1], 'phase') == 'submitting' and redis.call('EXISTS', KEYS[2]) == 1 then return 1 end
redis.call('HSET', KEYS[1], 'phase', 'idle', 'errorMessage', '', 'field', '', 'warning', '', 'orderId', '', 'updatedAt', ARGV[1])
redis.call('DEL', KEYS[2])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 0
`)

// RedisStore shares form states between replicas. The submitting phase is
// guarded by a lock key whose TTL bounds how long a crashed replica can
// hold a form.
type RedisStore struct {
	client  redis.UniversalClient
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time
}

func NewRedisStore(client redis.UniversalClient, ttl, lockTTL time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &RedisStore{client: client, ttl: ttl, lockTTL: lockTTL, now: time.Now}
}

// NewRedisClient parses url and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func formKey(id string) string { return formKeyPrefix + id }
func lockKey(id string) string { return formKeyPrefix + id + ":lock" }

func (s *RedisStore) Create(ctx context.Context) (string, entity.SubmissionState, error) {
	id := uuid.NewString()
	state := entity.IdleState(s.now().UTC())

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, formKey(id), stateFields(state))
		p.PExpire(ctx, formKey(id), s.ttl)
		return nil
	})
	if err != nil {
		return "", entity.SubmissionState{}, fmt.Errorf("failed to create form: %w", err)
	}
	return id, state, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (entity.SubmissionState, error) {
	fields, err := s.client.HGetAll(ctx, formKey(id)).Result()
	if err != nil {
		return entity.SubmissionState{}, fmt.Errorf("failed to load form %s: %w", id, err)
	}
	if len(fields) == 0 {
		return entity.SubmissionState{}, ErrFormNotFound
	}
	return parseState(fields)
}

func (s *RedisStore) Begin(ctx context.Context, id string) (string, entity.SubmissionState, error) {
	token := uuid.NewString()
	now := s.now().UTC()

	code, err := beginScript.Run(ctx, s.client, []string{formKey(id), lockKey(id)},
		now.Format(redisTimeFormat), token, s.lockTTL.Milliseconds(), s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return "", entity.SubmissionState{}, fmt.Errorf("failed to begin submission for form %s: %w", id, err)
	}

	switch code {
	case scriptOK:
		return token, entity.SubmissionState{Phase: entity.PhaseSubmitting, UpdatedAt: now}, nil
	case scriptNotFound:
		return "", entity.SubmissionState{}, ErrFormNotFound
	case scriptInFlight:
		return "", s.current(ctx, id, entity.PhaseSubmitting), ErrSubmissionInFlight
	case scriptNeedsReset:
		return "", s.current(ctx, id, entity.PhaseSucceeded), ErrResetRequired
	}
	return "", entity.SubmissionState{}, fmt.Errorf("unexpected begin result %d", code)
}

func (s *RedisStore) Complete(ctx context.Context, id, token string, state entity.SubmissionState) error {
	code, err := completeScript.Run(ctx, s.client, []string{formKey(id), lockKey(id)},
		token,
		string(state.Phase),
		state.ErrorMessage,
		string(state.Field),
		state.Warning,
		state.OrderID,
		state.UpdatedAt.UTC().Format(redisTimeFormat),
		s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to complete submission for form %s: %w", id, err)
	}
	if code != scriptOK {
		return ErrStaleSubmission
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, id string) (entity.SubmissionState, error) {
	now := s.now().UTC()
	code, err := resetScript.Run(ctx, s.client, []string{formKey(id), lockKey(id)},
		now.Format(redisTimeFormat), s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return entity.SubmissionState{}, fmt.Errorf("failed to reset form %s: %w", id, err)
	}

	switch code {
	case scriptOK:
		return entity.IdleState(now), nil
	case scriptNotFound:
		return entity.SubmissionState{}, ErrFormNotFound
	case scriptInFlight:
		return s.current(ctx, id, entity.PhaseSubmitting), ErrSubmissionInFlight
	}
	return entity.SubmissionState{}, fmt.Errorf("unexpected reset result %d", code)
}

// current is used to report the state that caused a conflict.
func (s *RedisStore) current(ctx context.Context, id string, fallback entity.Phase) entity.SubmissionState {
	state, err := s.Load(ctx, id)
	if err != nil {
		return entity.SubmissionState{Phase: fallback}
	}
	return state
}

func stateFields(state entity.SubmissionState) map[string]any {
	return map[string]any{
		"phase":        string(state.Phase),
		"errorMessage": state.ErrorMessage,
		"field":        string(state.Field),
		"warning":      state.Warning,
		"orderId":      state.OrderID,
		"updatedAt":    state.UpdatedAt.UTC().Format(redisTimeFormat),
	}
}

func parseState(fields map[string]string) (entity.SubmissionState, error) {
	updated, err := time.Parse(redisTimeFormat, fields["updatedAt"])
	if err != nil {
		return entity.SubmissionState{}, fmt.Errorf("failed to parse form timestamp: %w", err)
	}
	return entity.SubmissionState{
		Phase:        entity.Phase(fields["phase"]),
		ErrorMessage: fields["errorMessage"],
		Field:        entity.Field(fields["field"]),
		Warning:      fields["warning"],
		OrderID:      fields["orderId"],
		UpdatedAt:    updated,
	}, nil
}
