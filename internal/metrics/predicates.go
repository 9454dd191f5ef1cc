package metrics

func Completed(r Record) bool {
	return r.Complete
}

func Success(r Record) bool {
	return r.Complete && r.Outcome == OutcomeSuccess
}

func NotSuccess(r Record) bool {
	return r.Complete && r.Outcome != OutcomeSuccess
}

func Unstable(r Record) bool {
	return r.Complete && r.Outcome == OutcomeUnstable
}

func RunDuration(r Record) int64 {
	return r.Duration.Milliseconds()
}

func RunCheckoutDuration(r Record) int64 {
	return CheckoutDuration(r.Trace)
}
