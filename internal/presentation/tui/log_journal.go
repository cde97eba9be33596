package tui

import (
	"strings"
	"sync"
	"time"
)

// batchSize число строк, после которого журнал перерисовывается без ожидания тикера
const batchSize = 20

// logJournal копит строки журнала и пачками передает их в render.
// Запись не блокирует вызывающего: при переполнении очереди строка теряется.
type logJournal struct {
	incoming chan string
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	lines    []string
	maxLines int
	render   func(text string)
}

func newLogJournal(maxLines int, render func(text string)) *logJournal {
	return &logJournal{
		incoming: make(chan string, 100),
		done:     make(chan struct{}),
		lines:    make([]string, 0, maxLines),
		maxLines: maxLines,
		render:   render,
	}
}

func (j *logJournal) add(line string) {
	select {
	case <-j.done:
	case j.incoming <- line:
	default:
	}
}

// run обрабатывает очередь до вызова close
func (j *logJournal) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []string
	flush := func() {
		if len(pending) > 0 {
			j.append(pending)
			pending = nil
		}
	}

	for {
		select {
		case line := <-j.incoming:
			pending = append(pending, line)
			if len(pending) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-j.done:
			flush()
			return
		}
	}
}

func (j *logJournal) append(batch []string) {
	j.mu.Lock()
	j.lines = append(j.lines, batch...)
	if overflow := len(j.lines) - j.maxLines; overflow > 0 {
		j.lines = j.lines[overflow:]
	}
	text := strings.Join(j.lines, "\n")
	j.mu.Unlock()

	if j.render != nil {
		j.render(text)
	}
}

// snapshot возвращает копию накопленных строк
func (j *logJournal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.lines...)
}

func (j *logJournal) close() {
	j.stopOnce.Do(func() { close(j.done) })
}
