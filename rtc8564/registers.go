package rtc8564

const (
	Address       = 0x51 // I2C address for RTC-8564
	Control1      = 0x00 // Control register 1
	Control2      = 0x01 // Control register 2, holds the alarm and timer flags
	Seconds       = 0x02 // Time registers starting with seconds
	Minutes       = 0x03
	Hours         = 0x04
	Days          = 0x05
	Weekdays      = 0x06
	Months        = 0x07 // Months, bit 7 is the century flag
	Years         = 0x08
	MinuteAlarm   = 0x09 // Alarm registers starting with minutes, bit 7 disables each
	HourAlarm     = 0x0A
	DayAlarm      = 0x0B
	WeekdayAlarm  = 0x0C
	ClkOutControl = 0x0D // CLKOUT frequency register
	TimerControl  = 0x0E // Timer control register
	Timer         = 0x0F // Timer countdown value
)

// Control2 bits
const (
	TIE = 1 << 0 // timer interrupt enable
	AIE = 1 << 1 // alarm interrupt enable
	TF  = 1 << 2 // timer flag
	AF  = 1 << 3 // alarm flag
	TP  = 1 << 4 // timer pulse mode
)

// AE is set in an alarm register to leave that field out of the comparison.
const AE = 0x80

// VL is set in the seconds register when the supply dropped low enough that the time can no longer be trusted.
const VL = 0x80

// masks stripping status bits from the time registers
const (
	secondsMask = 0x7F
	minutesMask = 0x7F
	hoursMask   = 0x3F
	daysMask    = 0x3F
	weekdayMask = 0x07
	monthsMask  = 0x1F
)
