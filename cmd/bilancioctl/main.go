// bilancioctl drives a running bilancio server from the terminal.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bilancio/internal/core"
)

var (
	flagServer  string
	flagTimeout time.Duration
)

type budgetPayload struct {
	Income        int64            `json:"income"`
	Amounts       map[string]int64 `json:"amounts"`
	TotalExpenses int64            `json:"totalExpenses"`
	Remaining     int64            `json:"remaining"`
	PercentSpent  float64          `json:"percentSpent"`
}

var rootCmd = &cobra.Command{
	Use:   "bilancioctl",
	Short: "Gestione del bilancio mensile da riga di comando",
	Long:  "Interroga e modifica il bilancio mensile servito da un'istanza bilancio.",
	RunE:  runShow,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Mostra il bilancio corrente",
	RunE:  runShow,
}

var setIncomeCmd = &cobra.Command{
	Use:   "set-income <importo>",
	Short: "Imposta le entrate mensili",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		budget, err := apiPost("/api/budget/income", map[string]int64{
			"income": core.ParseAmount(args[0]),
		})
		if err != nil {
			return err
		}
		printBudget(budget)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <categoria> <importo>",
	Short: "Imposta l'importo di una categoria",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		budget, err := apiPost("/api/budget/category", map[string]interface{}{
			"category": strings.TrimSpace(args[0]),
			"amount":   core.ParseAmount(args[1]),
		})
		if err != nil {
			return err
		}
		printBudget(budget)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Salva il bilancio sul backend remoto",
	RunE: func(cmd *cobra.Command, args []string) error {
		budget, err := apiPost("/api/budget/save", nil)
		if err != nil {
			return err
		}
		fmt.Println("Bilancio salvato.")
		printBudget(budget)
		return nil
	},
}

func runShow(cmd *cobra.Command, args []string) error {
	budget, err := apiGet("/api/budget")
	if err != nil {
		return err
	}
	printBudget(budget)
	return nil
}

func apiGet(path string) (*budgetPayload, error) {
	client := &http.Client{Timeout: flagTimeout}
	resp, err := client.Get(strings.TrimRight(flagServer, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("contact server: %w", err)
	}
	defer resp.Body.Close()
	return decodeBudget(resp)
}

func apiPost(path string, body interface{}) (*budgetPayload, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	client := &http.Client{Timeout: flagTimeout}
	resp, err := client.Post(strings.TrimRight(flagServer, "/")+path, "application/json", &payload)
	if err != nil {
		return nil, fmt.Errorf("contact server: %w", err)
	}
	defer resp.Body.Close()
	return decodeBudget(resp)
}

func decodeBudget(resp *http.Response) (*budgetPayload, error) {
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var budget budgetPayload
	if err := json.NewDecoder(resp.Body).Decode(&budget); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &budget, nil
}

func printBudget(b *budgetPayload) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Entrate\t%s\n", core.FormatAmount(b.Income))

	for _, cat := range core.DefaultRegistry().Categories() {
		fmt.Fprintf(w, "  %s\t%s\n", cat.Name, core.FormatAmount(b.Amounts[cat.ID]))
	}

	fmt.Fprintf(w, "Spese\t%s\n", core.FormatAmount(b.TotalExpenses))
	fmt.Fprintf(w, "Rimanente\t%s\n", core.FormatAmount(b.Remaining))
	fmt.Fprintf(w, "Speso\t%.1f%%\n", b.PercentSpent)
	w.Flush()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "http://localhost:8081", "URL del server bilancio")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 5*time.Second, "Timeout delle richieste")

	rootCmd.AddCommand(showCmd, setIncomeCmd, setCmd, saveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Errore:", err)
		os.Exit(1)
	}
}
