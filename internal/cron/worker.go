package cron

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clopse/hotelfm/internal/alerting"
	"github.com/clopse/hotelfm/internal/bills"
	"github.com/clopse/hotelfm/internal/metrics"
	"github.com/clopse/hotelfm/internal/notification"
	"github.com/clopse/hotelfm/internal/storage"
	"github.com/robfig/cron/v3"
)

const (
	jobName = "refresh_bills"
	lockKey = int64(47)
)

// Run starts the refresh worker. Every interval it pulls fresh bills for all
// hotels from the upstream API, recomputes current-year coverage, updates
// metrics, and sends webhook/email alerts for failures and coverage gaps.
// Advisory locks make sure only one replica executes the job at a time.
func Run(ctx context.Context, driver, dsn, apiBase string) error {
	st, err := storage.Open(ctx, storage.Config{Driver: driver, DSN: dsn})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	svc := bills.NewServiceWithStorage(bills.Config{APIBase: apiBase}, st)
	alerter := alerting.NewAlerter(alerting.DefaultAlertConfig())
	notifier := notification.NewService(st)

	// Initial interval from env or default. Can be integer seconds or a
	// standard cron expression; the DB setting overrides the env.
	intervalSetting := "3600"
	if raw := os.Getenv("HOTELFM_REFRESH_INTERVAL"); raw != "" {
		intervalSetting = raw
	}
	if val, err := st.GetSetting(ctx, "refresh_interval_seconds"); err == nil && val != "" {
		intervalSetting = val
	}

	// Control loop ticker (checks config and run time).
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	getNextRun := func(setting string, lastRun time.Time) time.Time {
		if v, err := strconv.Atoi(setting); err == nil && v > 0 {
			return lastRun.Add(time.Duration(v) * time.Second)
		}
		if sched, err := cron.ParseStandard(setting); err == nil {
			return sched.Next(lastRun)
		}
		return lastRun.Add(time.Hour)
	}

	// Run immediately on startup, then schedule.
	nextRun := time.Now()

	log.Printf("cron worker starting, initial setting=%q driver=%s", intervalSetting, driver)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if val, err := st.GetSetting(ctx, "refresh_interval_seconds"); err == nil && val != "" {
				if val != intervalSetting {
					log.Printf("cron: interval updated from %q to %q", intervalSetting, val)
					intervalSetting = val
					nextRun = getNextRun(intervalSetting, time.Now())
				}
			}

			if time.Now().Before(nextRun) {
				continue
			}

			started := time.Now()

			ok, err := st.AcquireAdvisoryLock(ctx, lockKey)
			if err != nil {
				log.Printf("cron: acquire advisory lock failed: %v", err)
				metrics.UpdateJobMetrics(jobName, started, err)
				nextRun = getNextRun(intervalSetting, time.Now())
				continue
			}
			if !ok {
				log.Printf("cron: advisory lock held by another worker, skipping run")
				nextRun = getNextRun(intervalSetting, time.Now())
				continue
			}

			result := runRefresh(ctx, st, svc)

			metrics.UpdateJobMetrics(jobName, started, result.err)
			dur := time.Since(started)
			errMsg := ""
			if result.err != nil {
				errMsg = result.err.Error()
			}
			if err := st.UpdateScheduledJob(ctx, jobName, started, dur, result.err == nil, errMsg); err != nil {
				log.Printf("cron: update scheduled_jobs failed: %v", err)
			}

			if result.failed > 0 || len(result.incomplete) > 0 {
				alert := alerting.RefreshAlert{
					JobName:          jobName,
					TotalCount:       result.total,
					SuccessCount:     result.total - result.failed,
					FailedCount:      result.failed,
					Duration:         dur,
					FailedDetails:    result.failures,
					IncompleteMonths: result.incomplete,
					Timestamp:        time.Now(),
				}
				if err := alerter.SendRefreshAlert(ctx, alert); err != nil {
					log.Printf("cron: send alert failed: %v", err)
				}
				if err := notifier.SendDigest(ctx, digestSubject(result), digestBody(result, dur)); err != nil {
					log.Printf("cron: send digest failed: %v", err)
				}
			}

			if result.err != nil {
				log.Printf("cron: job %s completed with error: %v (duration=%s)", jobName, result.err, dur)
			} else {
				log.Printf("cron: job %s completed successfully (duration=%s)", jobName, dur)
			}

			nextRun = getNextRun(intervalSetting, time.Now())
		}
	}
}

type refreshResult struct {
	total      int
	failed     int
	failures   []alerting.HotelFailure
	incomplete map[string][]string
	err        error
}

func runRefresh(ctx context.Context, st storage.Storage, svc *bills.Service) refreshResult {
	defer func() {
		if _, err := st.ReleaseAdvisoryLock(ctx, lockKey); err != nil {
			log.Printf("cron: release advisory lock failed: %v", err)
		}
	}()

	res := refreshResult{incomplete: make(map[string][]string)}
	year := time.Now().Year()

	for _, h := range bills.Hotels() {
		res.total++
		start := time.Now()
		_, err := svc.ForceRefresh(ctx, h.Key)
		metrics.BillFetchDurationSeconds.WithLabelValues(h.Key).Observe(time.Since(start).Seconds())
		if err != nil {
			log.Printf("cron: refresh hotel %s failed: %v", h.Key, err)
			res.failed++
			res.failures = append(res.failures, alerting.HotelFailure{Hotel: h.Key, Error: err.Error()})
			if res.err == nil {
				res.err = err
			}
			continue
		}

		series, err := svc.MonthlySeries(ctx, h.Key, year)
		if err != nil {
			log.Printf("cron: series for hotel %s failed: %v", h.Key, err)
			continue
		}
		metrics.IncompleteMonths.WithLabelValues(h.Key).Set(float64(len(series.IncompleteMonths)))
		if len(series.IncompleteMonths) > 0 {
			res.incomplete[h.Key] = series.IncompleteMonths
		}
	}

	return res
}

func digestSubject(res refreshResult) string {
	if res.failed > 0 {
		return fmt.Sprintf("Bill refresh: %d/%d hotels failed", res.failed, res.total)
	}
	return fmt.Sprintf("Bill refresh: %d hotels with coverage gaps", len(res.incomplete))
}

func digestBody(res refreshResult, dur time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Refreshed %d hotels in %s; %d failed.</p>", res.total, dur.Round(time.Millisecond), res.failed)
	if len(res.failures) > 0 {
		b.WriteString("<p>Failures:</p><ul>")
		for _, f := range res.failures {
			fmt.Fprintf(&b, "<li><b>%s</b>: %s</li>", f.Hotel, f.Error)
		}
		b.WriteString("</ul>")
	}
	if len(res.incomplete) > 0 {
		b.WriteString("<p>Incomplete months:</p><ul>")
		for hotel, months := range res.incomplete {
			fmt.Fprintf(&b, "<li><b>%s</b>: %s</li>", hotel, strings.Join(months, ", "))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}
