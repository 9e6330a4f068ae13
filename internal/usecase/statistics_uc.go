package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/phenrril/backoffice/internal/domain"
)

// StatisticsUC folds the whole catalogue in memory. Associations whose
// country is not mirrored locally are skipped.
type StatisticsUC struct {
	Store domain.Transactor
}

type snapshot struct {
	providers int
	services  []domain.Service
	countries map[string]domain.Country
}

func (uc *StatisticsUC) load(ctx context.Context) (snapshot, error) {
	var snap snapshot
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		providers, err := uow.Providers().GetAll(ctx)
		if err != nil {
			return err
		}
		services, err := uow.Services().GetAll(ctx)
		if err != nil {
			return err
		}
		countries, err := uow.Countries().GetAll(ctx)
		if err != nil {
			return err
		}
		snap.providers = len(providers)
		snap.services = services
		snap.countries = make(map[string]domain.Country, len(countries))
		for _, c := range countries {
			snap.countries[c.Code] = c
		}
		return nil
	})
	return snap, err
}

// providerSets maps each country code to the distinct providers offering
// at least one service there.
func providerSets(services []domain.Service, countries map[string]domain.Country) map[string]map[uuid.UUID]struct{} {
	sets := map[string]map[uuid.UUID]struct{}{}
	for _, s := range services {
		for _, sc := range s.Countries {
			if _, ok := countries[sc.CountryCode]; !ok {
				continue
			}
			set, ok := sets[sc.CountryCode]
			if !ok {
				set = map[uuid.UUID]struct{}{}
				sets[sc.CountryCode] = set
			}
			set[s.ProviderID] = struct{}{}
		}
	}
	return sets
}

func serviceCounts(services []domain.Service, countries map[string]domain.Country) map[string]int {
	counts := map[string]int{}
	for _, s := range services {
		for _, sc := range s.Countries {
			if _, ok := countries[sc.CountryCode]; ok {
				counts[sc.CountryCode]++
			}
		}
	}
	return counts
}

func averageRate(services []domain.Service) float64 {
	if len(services) == 0 {
		return 0
	}
	var sum float64
	for _, s := range services {
		sum += s.HourlyRate
	}
	return math.Round(sum/float64(len(services))*100) / 100
}

// sortStatistics orders by count descending; equal counts fall back to the
// country code so results are stable across runs.
func sortStatistics(list []CountryStatistic) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].CountryCode < list[j].CountryCode
	})
}

func (uc *StatisticsUC) ProvidersByCountry(ctx context.Context) (Response[*ProvidersStatistics], error) {
	snap, err := uc.load(ctx)
	if err != nil {
		return respond[*ProvidersStatistics](nil, "", err)
	}
	sets := providerSets(snap.services, snap.countries)
	list := make([]CountryStatistic, 0, len(sets))
	for code, set := range sets {
		list = append(list, CountryStatistic{CountryCode: code, CountryName: snap.countries[code].Name, Count: len(set)})
	}
	sortStatistics(list)
	out := &ProvidersStatistics{
		ProvidersByCountry: list,
		TotalProviders:     snap.providers,
		TotalCountries:     len(list),
	}
	return respond(out, fmt.Sprintf("Found %d provider(s) across %d country(ies)", out.TotalProviders, out.TotalCountries), nil)
}

func (uc *StatisticsUC) ServicesByCountry(ctx context.Context) (Response[*ServicesStatistics], error) {
	snap, err := uc.load(ctx)
	if err != nil {
		return respond[*ServicesStatistics](nil, "", err)
	}
	counts := serviceCounts(snap.services, snap.countries)
	list := make([]CountryStatistic, 0, len(counts))
	for code, n := range counts {
		list = append(list, CountryStatistic{CountryCode: code, CountryName: snap.countries[code].Name, Count: n})
	}
	sortStatistics(list)
	out := &ServicesStatistics{
		ServicesByCountry: list,
		TotalServices:     len(snap.services),
		TotalCountries:    len(list),
		AverageHourlyRate: averageRate(snap.services),
	}
	return respond(out, fmt.Sprintf("Found %d service(s) across %d country(ies)", out.TotalServices, out.TotalCountries), nil)
}

func (uc *StatisticsUC) Summary(ctx context.Context) (Response[*SummaryReport], error) {
	snap, err := uc.load(ctx)
	if err != nil {
		return respond[*SummaryReport](nil, "", err)
	}
	return respond(summarize(snap), "Summary report retrieved successfully", nil)
}

func summarize(snap snapshot) *SummaryReport {
	sets := providerSets(snap.services, snap.countries)
	counts := serviceCounts(snap.services, snap.countries)

	rows := make([]CountrySummary, 0, len(counts))
	for code, n := range counts {
		rows = append(rows, CountrySummary{
			CountryCode:    code,
			CountryName:    snap.countries[code].Name,
			ProvidersCount: len(sets[code]),
			ServicesCount:  n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ServicesCount != rows[j].ServicesCount {
			return rows[i].ServicesCount > rows[j].ServicesCount
		}
		return rows[i].CountryCode < rows[j].CountryCode
	})

	report := &SummaryReport{
		CountryStatistics:     rows,
		TotalProviders:        snap.providers,
		TotalServices:         len(snap.services),
		TotalCountriesCovered: len(rows),
		AverageHourlyRate:     averageRate(snap.services),
	}
	for i := range snap.services {
		s := &snap.services[i]
		if report.MostExpensiveService == nil || s.HourlyRate > report.MostExpensiveService.HourlyRate {
			report.MostExpensiveService = toServiceRate(s)
		}
		if report.CheapestService == nil || s.HourlyRate < report.CheapestService.HourlyRate {
			report.CheapestService = toServiceRate(s)
		}
	}
	return report
}

func toServiceRate(s *domain.Service) *ServiceRate {
	return &ServiceRate{ID: s.ID, Name: s.Name, HourlyRate: s.HourlyRate, ProviderName: s.ProviderName()}
}
