package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"discovery-sync/core/logger"
	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/source"
)

// Phase names as they appear in the run result.
const (
	PhaseSites    = "sites"
	PhaseSoftware = "software"
	PhaseAssets   = "assets"
)

// SourcePrefix tags uploads with the integration that produced them.
const SourcePrefix = "discovery-"

// Source is what the orchestrator consumes from the discovery side. The
// concrete client in the source package implements it; tests substitute
// their own.
type Source interface {
	Sites(ctx context.Context) ([]source.Site, error)
	AssetTypes(ctx context.Context) ([]string, error)
	Software(ctx context.Context, types []string) ([]source.SoftwareRecord, error)
	FetchAssetPages(ctx context.Context, filter source.AssetFilter, handler source.PageHandler) ([]string, error)
}

// Orchestrator drives one synchronization run through its phases. Phases
// run strictly in sequence: sites build the site references, software
// builds the software references, and assets consume both. Terminal
// authorization failures unwind to the caller untouched; everything else is
// folded into the result and the run keeps going.
type Orchestrator struct {
	src  Source
	cat  catalog.Client
	opts Options
	log  *zap.Logger
}

// NewOrchestrator wires a run over the given collaborators.
func NewOrchestrator(src Source, cat catalog.Client, opts Options, log *zap.Logger) *Orchestrator {
	return &Orchestrator{src: src, cat: cat, opts: opts, log: log}
}

// Run executes one full synchronization. The returned result reflects
// partial success even when err is non-nil: phases completed before a
// terminal failure keep their counts.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := NewResult()
	index := NewIndex()
	refs := NewReferenceData()

	sites, err := o.syncSites(ctx, res, refs)
	if err != nil {
		return res.Cleanup(), err
	}

	types, err := o.resolveTypes(ctx)
	if err != nil {
		return res.Cleanup(), err
	}

	if err := o.syncSoftware(ctx, res, index, refs, types, sites); err != nil {
		return res.Cleanup(), err
	}

	if err := o.syncAssets(ctx, res, index, refs, types, sites); err != nil {
		return res.Cleanup(), err
	}

	return res.Cleanup(), nil
}

func (o *Orchestrator) syncSites(ctx context.Context, res *Result, refs *ReferenceData) ([]source.Site, error) {
	log := logger.WithPhase(o.log, PhaseSites)

	sites, err := o.src.Sites(ctx)
	if err != nil {
		if source.IsTerminal(err) {
			return nil, err
		}
		res.AddError(PhaseSites, err.Error())
		return nil, nil
	}

	for _, site := range sites {
		input := &catalog.SiteInput{Name: site.Name, Source: SourceTag(site.Name)}
		ref, err := o.cat.Upsert(ctx, "sites", input)
		if err != nil {
			if catalog.IsAuthorization(err) {
				return nil, err
			}
			// One failed site never blocks its siblings.
			res.AddError(PhaseSites, err.Error())
			continue
		}
		refs.Sites[site.Name] = ref.ID
		res.AddCount(PhaseSites, 1)
	}
	log.Info("sites synchronized", zap.Int("count", res.UploadCounts[PhaseSites]))
	return sites, nil
}

// resolveTypes intersects the configured type allow-list with the source's
// reported vocabulary. When the vocabulary cannot be fetched the run
// proceeds with the requested list as-is rather than aborting the phase.
func (o *Orchestrator) resolveTypes(ctx context.Context) ([]string, error) {
	if len(o.opts.AssetTypes) == 0 {
		return nil, nil
	}

	vocab, err := o.src.AssetTypes(ctx)
	if err != nil {
		if source.IsTerminal(err) {
			return nil, err
		}
		o.log.Warn("could not fetch asset type vocabulary, proceeding with configured types",
			zap.Error(err))
		return o.opts.AssetTypes, nil
	}

	known := make(map[string]string, len(vocab))
	for _, t := range vocab {
		known[Normalize(t)] = t
	}

	var types []string
	for _, want := range o.opts.AssetTypes {
		if t, ok := known[Normalize(want)]; ok {
			types = append(types, t)
		} else {
			o.log.Warn("configured asset type not reported by source", zap.String("type", want))
		}
	}
	if len(types) == 0 {
		o.log.Warn("no configured asset type matched the source vocabulary, syncing all types")
	}
	return types, nil
}

func (o *Orchestrator) syncSoftware(ctx context.Context, res *Result, index *Index, refs *ReferenceData, types []string, sites []source.Site) error {
	log := logger.WithPhase(o.log, PhaseSoftware)

	records, err := o.src.Software(ctx, types)
	if err != nil {
		if source.IsTerminal(err) {
			return err
		}
		res.AddError(PhaseSoftware, err.Error())
		return nil
	}
	if len(records) == 0 {
		res.SetInfo(PhaseSoftware, "no software inventory returned")
		return nil
	}

	mapper := NewSoftwareMapper(index)
	var handles []*catalog.BatchResult
	for _, chunk := range source.ChunkSoftware(records, o.opts.ChunkSize) {
		if mapper.MapAll(chunk) == 0 {
			continue
		}
		input := o.uploadInput(index.TakeBatch(), sites)
		if input == nil {
			continue
		}
		handle, err := o.cat.SubmitBatch(ctx, input)
		if err != nil {
			if catalog.IsAuthorization(err) {
				return err
			}
			res.AddError(PhaseSoftware, err.Error())
			continue
		}
		handles = append(handles, handle)
	}

	for _, out := range catalog.CollectAll(ctx, o.cat, handles, o.opts.AsyncTimeout) {
		if out.Err != nil {
			return out.Err
		}
		res.AddCount(PhaseSoftware, out.UploadCount)
		res.AddErrors(PhaseSoftware, out.Errors)
		for _, ref := range out.ConfigurationItems {
			if ref.ID != "" && ref.Name != "" {
				refs.SoftwareIDs[CleanName(ref.Name)] = ref.ID
			}
		}
	}
	log.Info("software synchronized",
		zap.Int("records", len(records)),
		zap.Int("uploaded", res.UploadCounts[PhaseSoftware]))
	return nil
}

func (o *Orchestrator) syncAssets(ctx context.Context, res *Result, index *Index, refs *ReferenceData, types []string, sites []source.Site) error {
	log := logger.WithPhase(o.log, PhaseAssets)
	mapper := NewMapper(index, refs, o.opts.GenerateLabels, log)

	filter := source.AssetFilter{Types: types}
	if o.opts.LastSeenDays > 0 {
		filter.LastSeenAfter = time.Now().AddDate(0, 0, -o.opts.LastSeenDays)
	}

	var handles []*catalog.BatchResult
	pageErrs, err := o.src.FetchAssetPages(ctx, filter, func(ctx context.Context, items []source.RawAsset) error {
		if err := o.resolveUsers(ctx, refs, items); err != nil {
			return err
		}

		for i := range items {
			a := &items[i]
			if o.skipAsset(a, filter.LastSeenAfter, log) {
				continue
			}
			if _, err := mapper.Map(a); err != nil {
				res.AddError(PhaseAssets, err.Error())
			}
		}

		input := o.uploadInput(index.TakeBatch(), sites)
		if input == nil {
			return nil
		}
		handle, err := o.cat.SubmitBatch(ctx, input)
		if err != nil {
			return err
		}
		handles = append(handles, handle)
		return nil
	})
	res.AddErrors(PhaseAssets, pageErrs)
	if err != nil {
		return err
	}

	for _, out := range catalog.CollectAll(ctx, o.cat, handles, o.opts.AsyncTimeout) {
		if out.Err != nil {
			return out.Err
		}
		res.AddCount(PhaseAssets, out.UploadCount)
		res.AddErrors(PhaseAssets, out.Errors)
	}
	log.Info("assets synchronized", zap.Int("uploaded", res.UploadCounts[PhaseAssets]))
	return nil
}

// resolveUsers normalizes the page's user accounts and looks up the ones
// not seen before this page. A failed person lookup is a miss, not an
// error; only an authorization failure stops the run.
func (o *Orchestrator) resolveUsers(ctx context.Context, refs *ReferenceData, items []source.RawAsset) error {
	for _, name := range ExtractUsers(items, o.opts.IgnoredUsers) {
		if _, known := refs.Users[name]; known {
			continue
		}
		ref, err := o.cat.LookupReference(ctx, "people", name)
		if err != nil {
			if catalog.IsAuthorization(err) {
				return err
			}
			o.log.Warn("person lookup failed", zap.String("name", name), zap.Error(err))
			continue
		}
		if ref != nil {
			refs.Users[name] = ref.ID
		}
	}
	return nil
}

func (o *Orchestrator) skipAsset(a *source.RawAsset, cutoff time.Time, log *zap.Logger) bool {
	if o.opts.NetworkedOnly && a.IPAddress == "" {
		log.Info("skipping asset without network address", zap.String("key", a.ID))
		return true
	}
	if !cutoff.IsZero() {
		if seen := parseDate(a.LastSeen); !seen.IsZero() && seen.Before(cutoff) {
			log.Info("skipping asset not seen recently",
				zap.String("key", a.ID),
				zap.String("lastSeen", a.LastSeen))
			return true
		}
	}
	return false
}

// uploadInput wraps a batch in the upload envelope. The primary source tag
// names this installation; per-site tags are carried as alternative sources
// so uploads from earlier runs under a site tag still match.
func (o *Orchestrator) uploadInput(batch []*catalog.Category, sites []source.Site) *catalog.UploadInput {
	if len(batch) == 0 {
		return nil
	}

	primary := SourceTag(o.opts.Installation)
	var alternatives []string
	for _, site := range sites {
		if tag := SourceTag(site.Name); tag != primary {
			alternatives = append(alternatives, tag)
		}
	}

	return &catalog.UploadInput{
		Source:             primary,
		AlternativeSources: alternatives,
		ReferenceStrategies: catalog.ReferenceStrategies{
			CIUserIDs: catalog.Meta{Strategy: "APPEND"},
		},
		PhysicalAssets: batch,
	}
}

// SourceTag builds the upload source tag for an installation or site name,
// truncated to what the catalog accepts.
func SourceTag(name string) string {
	tag := SourcePrefix + name
	if len(tag) > catalog.MaxSourceLength {
		tag = tag[:catalog.MaxSourceLength]
	}
	return tag
}
