package app

import (
	"os"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/tomatostore/grocer/internal/domain"
	"github.com/tomatostore/grocer/pkg/metrics"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 5m", func() {
		a.SchedOrderStatsTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		days := a.ConfigMgr().GetInt64("store", "OprLogRetentionDays")
		if days == 0 {
			days = 365
		}
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*time.Duration(days))).Delete(domain.SysOprLog{})
	})

	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Collect CPU usage
	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	// Collect memory usage
	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	// Collect process CPU usage
	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("grocer_cpuuse", int64(cpuuse*100)) // Store as percentage * 100
	}

	// Collect process memory usage
	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("grocer_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedOrderStatsTask records catalog/order gauges for the dashboard.
func (a *Application) SchedOrderStatsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	var pending, executed int64
	a.gormDB.Model(&domain.Order{}).Where("executed = ?", false).Count(&pending)
	a.gormDB.Model(&domain.Order{}).Where("executed = ?", true).Count(&executed)
	metrics.SetGauge("grocer_orders_pending", pending)
	metrics.SetGauge("grocer_orders_total", pending+executed)

	var totals []float64
	a.gormDB.Model(&domain.Order{}).Where("executed = ?", true).
		Pluck("total_price", &totals)
	if len(totals) == 0 {
		return
	}
	if mean, err := stats.Mean(totals); err == nil {
		metrics.SetGauge("grocer_order_mean_cents", int64(mean))
	}
	if sum, err := stats.Sum(totals); err == nil {
		metrics.SetGauge("grocer_revenue_cents", int64(sum))
	}
}
