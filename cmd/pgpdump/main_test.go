package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/pgpdump/pkg/armor"
	"example.com/pgpdump/pkg/config"
	"example.com/pgpdump/pkg/dump"
	"example.com/pgpdump/pkg/pgp"
)

func literalPacket(name string, data []byte) []byte {
	b := []byte{'b', byte(len(name))}
	b = append(b, name...)
	b = binary.BigEndian.AppendUint32(b, 1600000000)
	return pgp.Packet(pgp.PKT_LITERAL, append(b, data...))
}

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = &bytes.Buffer{}
	return l
}

func TestRunText(t *testing.T) {
	uc := config.GetDefaultConfig()
	var out bytes.Buffer
	err := run(bytes.NewReader(literalPacket("f", []byte("x"))), &out, &uc, cliFlags{}, testLogger())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), ":off 0: packet header 0xcb08 (tag 11, len 8)\nLiteral data packet\n"))
}

func TestRunJSONFromConfig(t *testing.T) {
	uc := config.GetDefaultConfig()
	uc.Output.Format = config.FormatJSON
	var out bytes.Buffer
	err := run(bytes.NewReader(literalPacket("f", []byte("x"))), &out, &uc, cliFlags{Pretty: true}, testLogger())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "[\n  {\n"))
	assert.Contains(t, out.String(), `"filename": "f"`)
}

func TestRunWritesPartialOutputOnError(t *testing.T) {
	uc := config.GetDefaultConfig()
	var data []byte
	for i := 0; i < dump.MaxErrorPackets+5; i++ {
		data = append(data, pgp.Packet(60, nil)...)
	}
	var out bytes.Buffer
	err := run(bytes.NewReader(data), &out, &uc, cliFlags{}, testLogger())
	assert.True(t, errors.Is(err, dump.ErrTooManyFailures))
	assert.Equal(t, dump.MaxErrorPackets+1, strings.Count(out.String(), "Skipping Unknown pkt: 60"))
}

func TestDumpOptions(t *testing.T) {
	uc := config.GetDefaultConfig()
	uc.Dump.MPI = true

	opts := dumpOptions(&uc, cliFlags{Raw: true}, false)
	assert.True(t, opts.DumpRaw)
	assert.True(t, opts.DumpMPI)
	assert.False(t, opts.DumpGrips)
	assert.Equal(t, 1024, opts.RawLimit)

	opts = dumpOptions(&uc, cliFlags{Grips: true}, true)
	assert.True(t, opts.DumpGrips)
	assert.Equal(t, 2048, opts.RawLimit)
}

func TestRunFilesWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "msg.pgp")
	out := filepath.Join(dir, "msg.txt")
	require.NoError(t, os.WriteFile(in, armor.Encode("PGP MESSAGE", literalPacket("f", nil), nil, true), 0o644))
	// a stale longer file must be truncated
	require.NoError(t, os.WriteFile(out, bytes.Repeat([]byte("z"), 4096), 0o644))

	uc := config.GetDefaultConfig()
	require.NoError(t, runFiles(&uc, cliFlags{}, in, out, testLogger()))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), ":armored input\n"))
	assert.NotContains(t, string(got), "z")

	assert.Error(t, runFiles(&uc, cliFlags{}, filepath.Join(dir, "missing"), "", testLogger()))
}

func buildCLIBinary(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	bin := filepath.Join(tmp, "pgpdump")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", bin)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return bin
}

func cliCommand(t *testing.T, bin string, stdin []byte, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), config.ConfigDirEnv+"="+t.TempDir())
	cmd.Stdin = bytes.NewReader(stdin)
	return cmd
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := buildCLIBinary(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "lit.pgp")
	require.NoError(t, os.WriteFile(in, literalPacket("cli.txt", []byte("hello")), 0o644))

	out, err := cliCommand(t, bin, nil, "-j", in).Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"filename":"cli.txt"`)

	out, err = cliCommand(t, bin, literalPacket("stdin.txt", nil), "-r").Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "filename: stdin.txt (len 9)")
	assert.Contains(t, string(out), "packet contents (15 bytes)")

	out, err = cliCommand(t, bin, nil, "-c").Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "format: text")

	cmd := cliCommand(t, bin, []byte("-----BEGIN PGP junk\n"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err = cmd.Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr.String(), dump.ErrBadArmor.Error())
}

func TestLoadAppConfigFallsBackToDefaults(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	t.Setenv(config.ConfigDirEnv, filepath.Join(blocker, "pgpdump"))

	logger, hook := logtest.NewNullLogger()
	appConfig := loadAppConfig(true, logger)

	require.NotNil(t, appConfig)
	assert.Empty(t, appConfig.ConfigDir)
	assert.True(t, appConfig.Debug)
	assert.Equal(t, config.GetDefaultConfig(), *appConfig.UserConfig)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "using defaults")
	assert.Error(t, entry.Data[logrus.ErrorKey].(error))
}

func TestLoadAppConfigUsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)

	logger, hook := logtest.NewNullLogger()
	appConfig := loadAppConfig(false, logger)

	assert.Equal(t, dir, appConfig.ConfigDir)
	assert.Empty(t, hook.AllEntries())
}
