package nvim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/neovim/go-client/nvim"
)

// ErrNoEditor is returned when no Neovim address is available.
var ErrNoEditor = errors.New("not running inside Neovim")

// Log levels of vim.log.levels.
const (
	LevelInfo  = 2
	LevelWarn  = 3
	LevelError = 4
)

// Manager handles the connection and interaction with the host Neovim.
type Manager struct {
	nvim *nvim.Nvim
}

// Address returns the RPC address of the host editor, if any. $NVIM is set
// for jobs and :terminal buffers; $NVIM_LISTEN_ADDRESS is the older name.
func Address() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

// New connects to the host editor.
func New() (*Manager, error) {
	addr := Address()
	if addr == "" {
		return nil, ErrNoEditor
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// call runs fn on its own goroutine so a pending RPC can be abandoned
// when ctx is done.
func (m *Manager) call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Text prompts on the editor command line with input().
func (m *Manager) Text(ctx context.Context, caption, initial string) (string, error) {
	var answer string
	opts := map[string]interface{}{
		"prompt":       caption + ": ",
		"default":      initial,
		"cancelreturn": "",
	}
	err := m.call(ctx, func() error {
		return m.nvim.Call("input", &answer, opts)
	})
	if err != nil {
		return "", fmt.Errorf("nvim input failed: %w", err)
	}
	m.redraw()
	return answer, nil
}

// Choice prompts with inputlist(). inputlist cannot preselect, so the
// default entry is marked with '*'. 0 or an out-of-range number is a cancel.
func (m *Manager) Choice(ctx context.Context, options []string, placeholder string, defaultIndex int) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	lines := make([]string, 0, len(options)+1)
	lines = append(lines, placeholder+":")
	for i, o := range options {
		mark := " "
		if i == defaultIndex {
			mark = "*"
		}
		lines = append(lines, mark+strconv.Itoa(i+1)+". "+o)
	}

	var index int
	err := m.call(ctx, func() error {
		return m.nvim.Call("inputlist", &index, lines)
	})
	if err != nil {
		return "", fmt.Errorf("nvim inputlist failed: %w", err)
	}
	m.redraw()
	if index < 1 || index > len(options) {
		return "", nil
	}
	return options[index-1], nil
}

// redraw clears the answered prompt from the command line.
func (m *Manager) redraw() {
	_ = m.nvim.Command("redraw")
}

// ActiveFile returns the path of the current buffer.
func (m *Manager) ActiveFile() (string, error) {
	buf, err := m.nvim.CurrentBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to get current buffer: %w", err)
	}
	name, err := m.nvim.BufferName(buf)
	if err != nil {
		return "", fmt.Errorf("failed to get buffer name: %w", err)
	}
	if name == "" {
		return "", errors.New("current buffer has no file")
	}
	return name, nil
}

// OpenFile edits path in the host editor.
func (m *Manager) OpenFile(path string) error {
	if err := m.nvim.ExecLua("vim.cmd.edit(vim.fn.fnameescape(...))", nil, path); err != nil {
		return fmt.Errorf("failed to open %s in nvim: %w", path, err)
	}
	return nil
}

// Notify shows msg in the editor with vim.notify.
func (m *Manager) Notify(msg string, level int) error {
	return m.nvim.ExecLua("local msg, level = ...; vim.notify(msg, level)", nil, msg, level)
}
