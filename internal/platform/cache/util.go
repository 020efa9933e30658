package cache

import (
	"time"
)

// TTLFunc returns the expiry to use for an entry written now.
type TTLFunc func() time.Duration

// FixedTTL は常に同じ期間を返すTTLFuncです。
func FixedTTL(d time.Duration) TTLFunc {
	return func() time.Duration { return d }
}

// UntilNextHour は次のhour時（locのタイムゾーン）までの期間を返すTTLFuncです。
// 定期リフレッシュの時刻にキャッシュが切れるように使います。
func UntilNextHour(hour int, loc *time.Location) TTLFunc {
	return func() time.Duration {
		return TimeUntilNextHour(time.Now().In(loc), hour)
	}
}

// TimeUntilNextHour はnowから次のhour時0分までの期間を返します。
// nowがちょうどhour時の場合は翌日のhour時までの期間になります。
func TimeUntilNextHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())

	// 今日のhour時が既に過ぎている場合は明日を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
