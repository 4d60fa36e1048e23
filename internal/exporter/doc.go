// Package exporter exposes one Tasmota device as Prometheus metrics.
//
// Each scrape sends POWER0 and Status 11 to the device and reports:
//
//	tasmota_up{device}              1 if the power query succeeded
//	tasmota_power_on{device,output} 1 for ON, 0 otherwise, per POWERn key
//	tasmota_uptime_seconds{device}  from StatusSTS.UptimeSec, when present
//
// The command counters and latency histogram recorded by the tasmota
// package (tasmota_commands_total, tasmota_command_duration_seconds) are
// served from the same endpoint.
package exporter
