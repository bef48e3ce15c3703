package core

// AlarmLead is the minimum distance, in counter units, between the counter
// and a newly armed deadline
const AlarmLead = 2

// AlarmSchedule produces deadlines for a compare alarm on a free-running
// 32-bit counter. The period is split into whole counts plus a remainder
// carried between deadlines so that the long-run rate is exact.
type AlarmSchedule struct {
	period    uint32
	remainder uint32
	rate      uint32
	carry     uint32
	next      uint32
}

// NewAlarmSchedule schedules rateHz deadlines on a counter running at
// counterHz, starting from the counter value start
func NewAlarmSchedule(counterHz, rateHz, start uint32) AlarmSchedule {
	return AlarmSchedule{
		period:    counterHz / rateHz,
		remainder: counterHz % rateHz,
		rate:      rateHz,
		next:      start,
	}
}

// Next advances to the following deadline and returns it. A deadline that
// is not at least AlarmLead ahead of now would only match after the counter
// wraps, so whole periods are skipped until it is; skipped reports how many.
func (s *AlarmSchedule) Next(now uint32) (deadline uint32, skipped uint32) {
	s.advance()
	for int32(s.next-now) < AlarmLead {
		s.advance()
		skipped++
	}
	return s.next, skipped
}

func (s *AlarmSchedule) advance() {
	step := s.period
	s.carry += s.remainder
	if s.carry >= s.rate {
		s.carry -= s.rate
		step++
	}
	s.next += step
}
