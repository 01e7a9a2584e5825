package testsupport

import "sync"

// Recorder captures operator alerts and navigation requests.
type Recorder struct {
	mu          sync.Mutex
	alerts      []string
	navigations int
}

// Alert records message.
func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

// ToList records a navigation back to the entry list.
func (r *Recorder) ToList() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations++
}

// Alerts returns a copy of the recorded alerts.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// LastAlert returns the most recent alert or "".
func (r *Recorder) LastAlert() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.alerts) == 0 {
		return ""
	}
	return r.alerts[len(r.alerts)-1]
}

// Navigations returns how many times ToList was called.
func (r *Recorder) Navigations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.navigations
}
