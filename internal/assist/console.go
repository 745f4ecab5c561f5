package assist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

var (
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	notesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// Render prints the reply the way the assistant always has: ruled
// sections for explanation, notes, and the command itself.
func Render(w io.Writer, reply *Reply) {
	rule := ruleStyle.Render(strings.Repeat("=", MaxLineWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, sectionStyle.Render("EXPLANATION:"))
	for _, line := range WrapText(reply.Explanation, MaxLineWidth) {
		fmt.Fprintln(w, bodyStyle.Render(line))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, notesStyle.Render("NOTES:"))
	for _, line := range WrapText(reply.Notes, MaxLineWidth) {
		fmt.Fprintln(w, bodyStyle.Render(line))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("COMMAND:"))
	fmt.Fprintln(w, bodyStyle.Render(reply.Command))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// ConfirmAndRun asks for confirmation (and optionally sudo), then runs
// the command through the shell with stdio attached. Declining is not
// an error.
func ConfirmAndRun(in io.Reader, out io.Writer, command string, log *logrus.Logger) error {
	reader := bufio.NewReader(in)

	if !promptYes(reader, out, "Do you want to run this command? (y/n): ") {
		return nil
	}
	if promptYes(reader, out, "Do you want to use sudo? (y/n): ") {
		command = "sudo " + command
	}

	log.WithField("command", command).Info("running command")

	cmd := exec.Command("bash", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		log.WithError(err).Error("command failed")
		return fmt.Errorf("running command: %w", err)
	}
	return nil
}

func promptYes(reader *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
