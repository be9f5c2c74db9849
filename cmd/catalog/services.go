package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deppfellow/service-catalog/internal/catalog"
	"github.com/deppfellow/service-catalog/internal/lib/utils"
	"github.com/deppfellow/service-catalog/internal/model"
)

var (
	listJSON      bool
	deleteConfirm bool
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List and change the catalog from the terminal",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current catalog",
	Args:  cobra.NoArgs,
	RunE:  runServicesList,
}

var servicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a service",
	Long: `Creates a service from the field flags. nombre and precio are required,
precio must be a non-negative number and cantidad a whole number.

Example:
  catalog services add --nombre Lavado --precio 5 --cantidad 3`,
	Args: cobra.NoArgs,
	RunE: runServicesAdd,
}

var servicesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a service",
	Long: `Edits the service with the given id. Only the flags that are passed are
applied; an empty or unparseable value keeps the current one.

Example:
  catalog services edit 2 --precio 0`,
	Args: cobra.ExactArgs(1),
	RunE: runServicesEdit,
}

var servicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a service after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesDelete,
}

func init() {
	servicesListCmd.Flags().BoolVar(&listJSON, "json", false, "Print the list as JSON")

	for _, cmd := range []*cobra.Command{servicesAddCmd, servicesEditCmd} {
		for _, field := range catalog.Fields {
			cmd.Flags().String(string(field), "", field.Label())
		}
	}

	servicesDeleteCmd.Flags().BoolVarP(&deleteConfirm, "yes", "y", false, "Skip the confirmation question")
}

func runServicesList(cmd *cobra.Command, args []string) error {
	services, err := current.services.Catalog.List(cmd.Context())
	if err != nil {
		return err
	}

	if listJSON {
		return utils.PrintJSON(cmd.OutOrStdout(), services)
	}
	return printTable(cmd.OutOrStdout(), services)
}

func runServicesAdd(cmd *cobra.Command, args []string) error {
	created, err := current.services.Catalog.Create(cmd.Context(), flagValues(cmd))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created service %d\n", created.ID)
	return nil
}

func runServicesEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	updated, err := current.services.Catalog.Edit(cmd.Context(), id, flagValues(cmd))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "updated service %d\n", updated.ID)
	return nil
}

func runServicesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var confirmer catalog.Confirmer = catalog.Confirmation(true)
	if !deleteConfirm {
		confirmer = &terminalConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	}

	deleted, err := current.services.Catalog.Delete(cmd.Context(), id, confirmer)
	if err != nil {
		return err
	}

	if deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "deleted service %d\n", id)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing deleted")
	}
	return nil
}

// flagValues collects only the field flags that were passed.
func flagValues(cmd *cobra.Command) catalog.Values {
	values := catalog.Values{}
	for _, field := range catalog.Fields {
		name := string(field)
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, _ := cmd.Flags().GetString(name)
		values[field] = value
	}
	return values
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid service id %q", arg)
	}
	return id, nil
}

func printTable(w io.Writer, services model.Services) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tPRECIO\tCANTIDAD\tDESCRIPCION")
	for _, s := range services {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", s.ID, s.Name, s.FormattedPrice(), s.Quantity, s.DisplayDescription())
	}
	return tw.Flush()
}

// terminalConfirmer asks the question on out and accepts "s", "si", "y"
// or "yes" from in.
type terminalConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (c *terminalConfirmer) Confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [s/N] ", question)

	answer, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}
