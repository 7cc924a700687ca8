package redis

import "github.com/redis/go-redis/v9"

// raiseProgressScript raises unlocked_upto to ARGV[1] if the stored value is lower,
// creating the record at ARGV[3] first if absent.
// KEYS[1] progress hash; ARGV[1] target, ARGV[2] now (unix ms), ARGV[3] first level.
// Returns {unlocked_upto, advanced, updated_at}.
var raiseProgressScript = redis.NewScript(`
local raw = redis.call('HGET', KEYS[1], 'unlocked_upto')
local cur
local ts
if not raw then
  cur = tonumber(ARGV[3])
  ts = tonumber(ARGV[2])
  redis.call('HSET', KEYS[1], 'unlocked_upto', ARGV[3], 'updated_at', ARGV[2])
else
  cur = tonumber(raw)
  ts = tonumber(redis.call('HGET', KEYS[1], 'updated_at') or '0')
end
local target = tonumber(ARGV[1])
if target > cur then
  redis.call('HSET', KEYS[1], 'unlocked_upto', ARGV[1], 'updated_at', ARGV[2])
  return {target, 1, tonumber(ARGV[2])}
end
return {cur, 0, ts}
`)

// putGhostIfFasterScript stores a ghost when no time exists for the level or the
// submitted time is strictly lower.
// KEYS[1] ghost times hash, KEYS[2] ghosts hash; ARGV[1] level, ARGV[2] time_ms, ARGV[3] ghost JSON.
// Returns 1 if stored, 0 if discarded.
var putGhostIfFasterScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if cur and tonumber(ARGV[2]) >= tonumber(cur) then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('HSET', KEYS[2], ARGV[1], ARGV[3])
return 1
`)
