package main

import (
	"context"
	"time"

	"github.com/muurk/wifid/internal/connect"
	"github.com/muurk/wifid/internal/credstore"
	"github.com/muurk/wifid/internal/netconfig"
)

// runSequence drives one foreground connection attempt with the stored
// credential's parameters.
func runSequence(store *credstore.Store, cred credstore.Credential) connect.Result {
	cfg := netconfig.NewNetworkConfig()
	cfg.SSID = cred.SSID
	cfg.Password = cred.Password.Reveal()
	cfg.UseStaticIP = cred.UseStatic
	cfg.StaticIP = cred.StaticIP
	cfg.Gateway = cred.Gateway
	cfg.Subnet = cred.Subnet
	cfg.DNS1 = cred.DNS1
	cfg.DNS2 = cred.DNS2

	orch := connect.NewOrchestrator(connect.NewNMCLIConnector(""), store)
	if budgetSecs > 0 {
		orch.Budget = time.Duration(budgetSecs) * time.Second
	}

	return orch.Run(context.Background(), cfg)
}
