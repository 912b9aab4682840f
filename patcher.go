package cssompatch

import (
	"errors"
	"fmt"

	"github.com/npillmayer/cssompatch/applier"
	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/npillmayer/cssompatch/patch"
	"github.com/npillmayer/cssompatch/sheets"
)

// ErrTargetUnresolved is returned if a patch target is no stylesheet with
// accessible rules.
var ErrTargetUnresolved = errors.New("patch target unresolved")

// Patcher applies batches of patches to stylesheets. Every batch works on a
// freshly built index, so stylesheets may change between batches.
type Patcher struct {
	config   Config
	provider sheets.Provider
	warnings []error
}

// New creates a patcher. provider is needed for PatchURL only and may be nil.
func New(config Config, provider sheets.Provider) *Patcher {
	config.defaults()
	return &Patcher{config: config, provider: provider}
}

// Config returns the configuration of the patcher.
func (p *Patcher) Config() Config {
	return p.config
}

// Patch applies patches to sheet and returns the resulting ops. Patches the
// host rejects are skipped; see Warnings. If sheet is nil or its rules are not
// accessible, ErrTargetUnresolved is returned and no patch is attempted.
func (p *Patcher) Patch(sheet cssom.StyleSheet, patches ...patch.Patch) ([]oplog.Op, error) {
	p.warnings = nil
	if sheet == nil {
		return nil, ErrTargetUnresolved
	}
	session, err := applier.NewSession(sheet, p.config.AtRules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTargetUnresolved, err)
	}
	ops := session.Apply(patches...)
	p.warnings = session.Warnings()
	if len(p.warnings) > 0 {
		tracer().Infof("%d of %d patches abandoned", len(p.warnings), len(patches))
	}
	return ops, nil
}

// PatchURL applies patches to the stylesheet with the given URL.
func (p *Patcher) PatchURL(url string, patches ...patch.Patch) ([]oplog.Op, error) {
	p.warnings = nil
	if p.provider == nil {
		return nil, fmt.Errorf("%w: no stylesheet provider for %s", ErrTargetUnresolved, url)
	}
	sheet, ok := p.provider.StyleSheets()[url]
	if !ok || sheet == nil {
		return nil, fmt.Errorf("%w: no stylesheet %s", ErrTargetUnresolved, url)
	}
	return p.Patch(sheet, patches...)
}

// Warnings lists the patches abandoned during the last call of Patch or
// PatchURL.
func (p *Patcher) Warnings() []error {
	return p.warnings
}
