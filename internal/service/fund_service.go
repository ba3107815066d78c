package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/cache"
	"github.com/fundwatch/fund-monitor-backend/internal/eastmoney"
	"github.com/fundwatch/fund-monitor-backend/internal/gateway"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
)

const directoryCacheKey = "fund:directory"

// navFanOutLimit caps concurrent NAV fetches within one page.
const navFanOutLimit = 10

// FundService assembles filtered, paginated, NAV-enriched fund pages and
// annotates them with the requesting user's favorite/monitor state.
type FundService struct {
	fundClient    eastmoney.Client
	gatewayClient gateway.Client
	cache         *cache.Cache
	favoriteRepo  *repository.LinkRepository
	monitorRepo   *repository.LinkRepository
}

// NewFundService creates a new FundService with the provided dependencies.
func NewFundService(
	fundClient eastmoney.Client,
	gatewayClient gateway.Client,
	c *cache.Cache,
	favoriteRepo *repository.LinkRepository,
	monitorRepo *repository.LinkRepository,
) *FundService {
	return &FundService{
		fundClient:    fundClient,
		gatewayClient: gatewayClient,
		cache:         c,
		favoriteRepo:  favoriteRepo,
		monitorRepo:   monitorRepo,
	}
}

// List produces one page of funds.
//
// Pipeline:
//  1. Obtain the full directory (24h cache over the upstream fetch).
//  2. Apply deny-list then allow-list substring filters over each fund's
//     "{name} - {type}" description. Deny is applied first, so a fund
//     matching both lists is excluded.
//  3. Slice the filtered sequence for the 1-based page. A page beyond the
//     end yields an empty slice, not an error.
//  4. Fetch each sliced fund's NAV concurrently; a failed fetch zero-fills
//     that one record instead of aborting the page.
//  5. Attach the filtered-universe size to every record and annotate with
//     the user's favorite/monitor flags (all false when userID is empty).
//
// A directory fetch failure returns apperrors.ErrDirectoryUnavailable so
// callers can distinguish "upstream down" from "zero funds match".
func (s *FundService) List(ctx context.Context, params request.ListFundsParams, userID string) (model.FundPage, error) {
	directory, err := s.directory(ctx)
	if err != nil {
		return model.FundPage{}, err
	}

	filtered := filterDirectory(directory, params.Allow, params.Deny)
	total := len(filtered)

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	slice := filtered[start:end]

	records := make([]model.FundRecord, len(slice))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(navFanOutLimit)
	for i, entry := range slice {
		g.Go(func() error {
			records[i] = s.enrich(gctx, entry, total)
			return nil
		})
	}
	// enrich never returns an error; the group is used for the join and
	// the concurrency cap.
	_ = g.Wait()

	annotated, err := s.reconcile(ctx, records, userID)
	if err != nil {
		return model.FundPage{}, err
	}

	return model.FundPage{
		Data:  annotated,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

// Detail returns the gateway's richer per-fund view.
func (s *FundService) Detail(ctx context.Context, code string) (*model.FundDetail, error) {
	return s.gatewayClient.FundDetail(ctx, code)
}

// directory returns the cached fund directory, fetching on a miss.
func (s *FundService) directory(ctx context.Context) ([]model.DirectoryEntry, error) {
	if cached, ok := s.cache.Get(directoryCacheKey); ok {
		if entries, ok := cached.([]model.DirectoryEntry); ok {
			return entries, nil
		}
	}

	entries, err := s.fundClient.FetchDirectory(ctx)
	if err != nil {
		log.Printf("directory fetch failed: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDirectoryUnavailable, err)
	}

	s.cache.Set(directoryCacheKey, entries, cache.TTLDirectory)

	return entries, nil
}

// filterDirectory applies the deny-then-allow substring filters.
// Matching is case-sensitive substring over the entry description, not
// tokenized: a deny of "债券" drops "债券增强C" even if an allow substring
// also matches.
func filterDirectory(entries []model.DirectoryEntry, allow, deny []string) []model.DirectoryEntry {
	filtered := make([]model.DirectoryEntry, 0, len(entries))

entries:
	for _, e := range entries {
		desc := e.Description()
		for _, d := range deny {
			if strings.Contains(desc, d) {
				continue entries
			}
		}
		if len(allow) > 0 {
			matched := false
			for _, a := range allow {
				if strings.Contains(desc, a) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	return filtered
}

// enrich builds one FundRecord from a directory entry plus its live NAV.
// A failed NAV fetch degrades to a zero-filled record for that fund only.
func (s *FundService) enrich(ctx context.Context, entry model.DirectoryEntry, total int) model.FundRecord {
	record := model.FundRecord{
		ID:         entry.Code,
		Code:       entry.Code,
		Name:       entry.Name,
		ShortName:  shortName(entry.Name),
		Type:       entry.Type,
		TotalCount: total,
	}

	snapshot, err := s.fundClient.FetchNav(ctx, entry.Code)
	if err != nil {
		log.Printf("nav fetch failed for %s: %v", entry.Code, err)
		record.DataIncomplete = true
		return record
	}

	record.NetWorth = snapshot.NetWorth
	record.NetWorthDate = snapshot.NetWorthDate
	record.ExpectWorth = snapshot.ExpectWorth
	record.ExpectGrowth = snapshot.ExpectGrowth
	record.ExpectWorthDate = snapshot.ExpectWorthDate
	record.EstimatedChange = snapshot.EstimatedChange
	record.DataIncomplete = snapshot.Incomplete
	if snapshot.Name != "" {
		record.Name = snapshot.Name
		record.ShortName = shortName(snapshot.Name)
	}

	return record
}

// reconcile annotates records with the user's favorite/monitor flags.
// Pure merge once the link sets are loaded; an empty userID yields
// all-false annotations without touching the store.
func (s *FundService) reconcile(ctx context.Context, records []model.FundRecord, userID string) ([]model.AnnotatedFundRecord, error) {
	annotated := make([]model.AnnotatedFundRecord, len(records))

	if userID == "" {
		for i, r := range records {
			annotated[i] = model.AnnotatedFundRecord{FundRecord: r}
		}
		return annotated, nil
	}

	favorites, err := s.favoriteRepo.Codes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite links: %w", err)
	}
	monitors, err := s.monitorRepo.Codes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monitor links: %w", err)
	}

	for i, r := range records {
		annotated[i] = model.AnnotatedFundRecord{
			FundRecord:   r,
			IsFavorite:   favorites[r.Code],
			IsMonitoring: monitors[r.Code],
		}
	}

	return annotated, nil
}

// shortName truncates a fund name to eight runes plus an ellipsis.
func shortName(name string) string {
	runes := []rune(name)
	if len(runes) <= 8 {
		return name
	}
	return string(runes[:8]) + "…"
}
