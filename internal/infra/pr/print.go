// Package pr — консольный ввод/вывод клиента поверх readline.
// Логи и интерактивные подсказки (код входа, 2FA) делят один терминал, поэтому
// stdout/stderr берутся у readline, а не напрямую у os.Stdout.
package pr

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/kr/pretty"
)

var (
	mu     sync.Mutex
	rl     *readline.Instance
	in     io.Closer
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// Init создаёт readline с отменяемым stdin и перенаправляет вывод в его буферы.
func Init() error {
	cs := readline.NewCancelableStdin(os.Stdin)
	inst, err := readline.NewEx(&readline.Config{Stdin: cs})
	if err != nil {
		_ = cs.Close()
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	rl = inst
	in = cs
	out = inst.Stdout()
	errOut = inst.Stderr()
	return nil
}

// Close прерывает ожидание ввода и закрывает readline. Повторный вызов безопасен.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if in != nil {
		_ = in.Close()
		in = nil
	}
	if rl != nil {
		_ = rl.Close()
		rl = nil
	}
	out, errOut = os.Stdout, os.Stderr
}

// ReadLine печатает приглашение и читает строку без пробелов по краям.
// Без Init возвращает io.EOF.
func ReadLine(prompt string) (string, error) {
	mu.Lock()
	inst := rl
	mu.Unlock()
	if inst == nil {
		return "", io.EOF
	}
	inst.SetPrompt(prompt)
	line, err := inst.Readline()
	return strings.TrimSpace(line), err
}

// Stdout возвращает текущий writer стандартного вывода.
func Stdout() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// Stderr возвращает текущий writer ошибок.
func Stderr() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return errOut
}

func Print(a ...any)                 { fmt.Fprint(Stdout(), a...) }
func Println(a ...any)               { fmt.Fprintln(Stdout(), a...) }
func Printf(format string, a ...any) { fmt.Fprintf(Stdout(), format, a...) }

// Pf возвращает pretty-представление значения. Для отладки: аллоцирует.
func Pf(v any) string {
	return fmt.Sprintf("%# v", pretty.Formatter(v))
}
