package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Talk to a running tonmonitor serve instance",
}

var monitorSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a message for monitoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		queue, _ := cmd.Flags().GetString("queue")
		bocHex, _ := cmd.Flags().GetString("boc")

		boc, err := hex.DecodeString(bocHex)
		if err != nil {
			return fmt.Errorf("--boc must be hex-encoded: %w", err)
		}

		body, err := json.Marshal(map[string]any{
			"queue":    queue,
			"messages": []messaging.MonitoredMessage{{Boc: boc}},
		})
		if err != nil {
			return err
		}

		resp, err := httpClient().Post(server+"/v1/monitor_messages", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}
		fmt.Printf("submitted to queue %q\n", queue)
		return nil
	},
}

var monitorFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch next resolved results for a queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		queue, _ := cmd.Flags().GetString("queue")
		mode, _ := cmd.Flags().GetString("mode")

		body, err := json.Marshal(map[string]string{"queue": queue, "mode": mode})
		if err != nil {
			return err
		}

		resp, err := httpClient().Post(server+"/v1/fetch_next_monitor_results", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}

		var results []messaging.MonitoringResult
		if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%s  %-10s %s\n", r.Hash, r.Status, r.Error)
		}
		if len(results) == 0 {
			fmt.Println("(no results)")
		}
		return nil
	},
}

var monitorInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report queue partition sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		queue, _ := cmd.Flags().GetString("queue")

		resp, err := httpClient().Get(server + "/v1/get_queue_info?queue=" + queue)
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}

		var info struct {
			Unresolved uint32
			Resolved   uint32
		}
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return err
		}
		fmt.Printf("unresolved=%d resolved=%d\n", info.Unresolved, info.Resolved)
		return nil
	},
}

var monitorCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Stop tracking a queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		queue, _ := cmd.Flags().GetString("queue")

		resp, err := httpClient().Post(server+"/v1/cancel_monitor?queue="+queue, "application/json", nil)
		if err != nil {
			return fmt.Errorf("cancel: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return decodeAPIError(resp)
		}
		fmt.Printf("cancelled queue %q\n", queue)
		return nil
	},
}

func init() {
	monitorCmd.AddCommand(monitorSubmitCmd)
	monitorCmd.AddCommand(monitorFetchCmd)
	monitorCmd.AddCommand(monitorInfoCmd)
	monitorCmd.AddCommand(monitorCancelCmd)

	for _, cmd := range []*cobra.Command{monitorSubmitCmd, monitorFetchCmd, monitorInfoCmd, monitorCancelCmd} {
		cmd.Flags().String("server", "http://127.0.0.1:8080", "tonmonitor serve address")
		cmd.Flags().String("queue", "", "Queue name")
		cmd.MarkFlagRequired("queue")
	}

	monitorSubmitCmd.Flags().String("boc", "", "Hex-encoded message wire form")
	monitorSubmitCmd.MarkFlagRequired("boc")

	monitorFetchCmd.Flags().String("mode", "AtLeastOne", "Wait mode: AtLeastOne, All, or NoWait")
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Minute}
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, body.Error)
	}
	return fmt.Errorf("request failed: %s", resp.Status)
}
