package command

import (
	"bufio"
	"fmt"
	"io"
)

// Repl reads commands from r until quit or EOF, writing the prompt and every
// reply to w.
func Repl(in *Interpreter, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for !in.Quit() {
		if _, err := io.WriteString(w, Prompt); err != nil {
			return err
		}
		if !sc.Scan() {
			break
		}
		if reply := in.Exec(sc.Text()); reply != "" {
			if _, err := fmt.Fprintln(w, reply); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}
