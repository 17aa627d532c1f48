// Package device decides whether a DRI instance is a GPU whose wave state can
// be inspected.
package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// FamilyAIMask identifies the gfx9 ("AI") device family. A device belongs to
// the family if its PCI device id shifted right by four equals the mask.
const FamilyAIMask = 0x686

// DefaultSysfsRoot is where sysfs is normally mounted.
const DefaultSysfsRoot = "/sys"

var pciAddressRegex = regexp.MustCompile(
	`^[0-9a-fA-F]+:[0-9a-fA-F]+:[0-9a-fA-F]+\.[0-9a-fA-F]+$`)

var errNoDevToken = errors.New("no dev= token in name record")

// FamilyMatch tells if a PCI device id belongs to the family identified by
// mask.
func FamilyMatch(deviceID, mask uint32) bool {
	return deviceID>>4 == mask
}

// A Gate checks the device family of DRI instances.
type Gate struct {
	debugfsRoot string
	sysfsRoot   string
	family      uint32
	logger      log.Logger
}

// NewGateFrom creates a Gate that reads the name records under debugfsRoot
// and the PCI records under sysfsRoot. It accepts the AI family.
func NewGateFrom(debugfsRoot, sysfsRoot string, logger log.Logger) *Gate {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Gate{
		debugfsRoot: debugfsRoot,
		sysfsRoot:   sysfsRoot,
		family:      FamilyAIMask,
		logger:      logger,
	}
}

// IsSupported returns true only if the device id of the instance could be
// read and belongs to the supported family.
func (g *Gate) IsSupported(instance int) bool {
	id, err := g.DeviceID(instance)
	if err != nil {
		level.Debug(g.logger).Log(
			"msg", "device check failed", "instance", instance, "err", err)
		return false
	}

	supported := FamilyMatch(id, g.family)
	level.Debug(g.logger).Log(
		"msg", "device checked",
		"instance", instance,
		"device_id", fmt.Sprintf("%#x", id),
		"supported", supported)

	return supported
}

// DeviceID resolves the PCI device id of a DRI instance.
func (g *Gate) DeviceID(instance int) (uint32, error) {
	addr, err := g.PCIAddress(instance)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(g.sysfsRoot, "bus/pci/devices", addr, "device")
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return parseDeviceID(string(raw))
}

// PCIAddress returns the PCI address recorded in the name record of a DRI
// instance.
func (g *Gate) PCIAddress(instance int) (string, error) {
	path := filepath.Join(
		g.debugfsRoot, "dri", strconv.Itoa(instance), "name")
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return parseNameRecord(string(raw))
}

// parseNameRecord extracts the PCI address from a record such as
// "amdgpu dev=0000:03:00.0 unique=0000:03:00.0".
func parseNameRecord(record string) (string, error) {
	fields := strings.Fields(record)
	if len(fields) < 2 {
		return "", fmt.Errorf("name record %q: %w", record, errNoDevToken)
	}

	idx := strings.Index(fields[1], "dev=")
	if idx < 0 {
		return "", fmt.Errorf("name record %q: %w", record, errNoDevToken)
	}

	addr := fields[1][idx+len("dev="):]
	if !pciAddressRegex.MatchString(addr) {
		return "", fmt.Errorf("invalid PCI address %q", addr)
	}

	return addr, nil
}

func parseDeviceID(raw string) (uint32, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, errors.New("empty device record")
	}

	s := strings.TrimPrefix(strings.ToLower(fields[0]), "0x")
	id, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("device record %q: %w", raw, err)
	}

	return uint32(id), nil
}
