package scriptable

import (
	"bufio"
	"io"
)

type lineMsg struct {
	text string
}

// mergedLines reads one line at a time from out and errR concurrently,
// yielding whichever resolves first (ties broken toward stdout) and holding
// the other for the next call. Once one stream hits EOF, the other is
// drained on its own. The returned channel is closed once both streams are
// exhausted.
func mergedLines(out, errR io.ReadCloser) <-chan Line {
	ch := make(chan Line)

	outCh := make(chan lineMsg)
	errCh := make(chan lineMsg)
	go scanLines(out, outCh)
	go scanLines(errR, errCh)

	go func() {
		defer close(ch)
		defer out.Close()
		defer errR.Close()

		var pendingOut, pendingErr *lineMsg
		outOpen, errOpen := true, true

		for outOpen || errOpen {
			if pendingOut == nil && outOpen {
				select {
				case m, ok := <-outCh:
					if !ok {
						outOpen = false
					} else {
						pendingOut = &m
					}
				default:
				}
			}
			if pendingErr == nil && errOpen {
				select {
				case m, ok := <-errCh:
					if !ok {
						errOpen = false
					} else {
						pendingErr = &m
					}
				default:
				}
			}

			switch {
			case pendingOut != nil:
				ch <- Line{Text: pendingOut.text}
				pendingOut = nil
			case pendingErr != nil:
				ch <- Line{Text: pendingErr.text, FromError: true}
				pendingErr = nil
			case outOpen && errOpen:
				select {
				case m, ok := <-outCh:
					if !ok {
						outOpen = false
					} else {
						ch <- Line{Text: m.text}
					}
				case m, ok := <-errCh:
					if !ok {
						errOpen = false
					} else {
						ch <- Line{Text: m.text, FromError: true}
					}
				}
			case outOpen:
				m, ok := <-outCh
				if !ok {
					outOpen = false
				} else {
					ch <- Line{Text: m.text}
				}
			case errOpen:
				m, ok := <-errCh
				if !ok {
					errOpen = false
				} else {
					ch <- Line{Text: m.text, FromError: true}
				}
			}
		}
	}()

	return ch
}

func scanLines(r io.Reader, out chan<- lineMsg) {
	defer close(out)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		out <- lineMsg{text: s.Text()}
	}
}
