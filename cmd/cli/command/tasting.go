package command

import (
	"fmt"
	"strconv"
	"strings"

	"blindtasting/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tasting",
	Long: `Create a tasting with numbered wine slots. Criteria are given as
label:min:max or label:min:max:weight, for example --criterion Nose:1:10.`,
	Example: `  tastingctl create --title "Friday reds" --host Ana --pin 4711 --wines 6 \
    --criterion Nose:1:10 --criterion Taste:1:10:2 --open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := createRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		httpClient, err := newClient()
		if err != nil {
			return err
		}

		tasting, err := httpClient.CreateTasting(req)
		if err != nil {
			return fmt.Errorf("failed to create tasting: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Tasting created\n", color.GreenString("✓"))
		fmt.Fprintf(cmd.OutOrStdout(), "Slug:     %s\n", tasting.PublicSlug)
		fmt.Fprintf(cmd.OutOrStdout(), "Status:   %s\n", tasting.Status)
		fmt.Fprintf(cmd.OutOrStdout(), "Wines:    %d\n", len(tasting.Wines))
		fmt.Fprintf(cmd.OutOrStdout(), "Criteria: %d\n", len(tasting.Criteria))
		return nil
	},
}

func createRequestFromFlags(cmd *cobra.Command) (*dto.CreateTastingRequest, error) {
	flags := cmd.Flags()
	title, _ := flags.GetString("title")
	host, _ := flags.GetString("host")
	slug, _ := flags.GetString("slug")
	pin, _ := flags.GetString("pin")
	wines, _ := flags.GetInt("wines")
	maxParticipants, _ := flags.GetInt("max-participants")
	open, _ := flags.GetBool("open")
	specs, _ := flags.GetStringArray("criterion")

	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --criterion is required")
	}
	req := &dto.CreateTastingRequest{
		Title:           title,
		HostName:        host,
		PublicSlug:      slug,
		PIN:             pin,
		WineCount:       wines,
		MaxParticipants: maxParticipants,
	}
	if open {
		req.Status = "open"
	}
	for _, spec := range specs {
		c, err := parseCriterion(spec)
		if err != nil {
			return nil, err
		}
		req.Criteria = append(req.Criteria, c)
	}
	return req, nil
}

// parseCriterion reads label:min:max[:weight].
func parseCriterion(spec string) (dto.CriterionInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 || len(parts) > 4 || strings.TrimSpace(parts[0]) == "" {
		return dto.CriterionInput{}, fmt.Errorf("invalid criterion %q, want label:min:max[:weight]", spec)
	}
	nums := make([]float64, 0, 3)
	for _, p := range parts[1:] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return dto.CriterionInput{}, fmt.Errorf("invalid criterion %q: %w", spec, err)
		}
		nums = append(nums, v)
	}
	if nums[0] > nums[1] {
		return dto.CriterionInput{}, fmt.Errorf("invalid criterion %q: min exceeds max", spec)
	}
	c := dto.CriterionInput{Label: strings.TrimSpace(parts[0]), ScaleMin: nums[0], ScaleMax: nums[1]}
	if len(nums) == 3 {
		c.Weight = &nums[2]
	}
	return c, nil
}

var statusCmd = &cobra.Command{
	Use:       "status [slug] [draft|open|closed|revealed]",
	Short:     "Change the status of a tasting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"draft", "open", "closed", "revealed"},
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := newClient()
		if err != nil {
			return err
		}
		tasting, err := httpClient.SetStatus(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to change status: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", color.GreenString("✓"), tasting.PublicSlug, color.CyanString(tasting.Status))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tastings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		httpClient, err := newClient()
		if err != nil {
			return err
		}
		result, err := httpClient.ListTastings(page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list tastings: %w", err)
		}
		if len(result.Data) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tastings found.")
			return nil
		}
		return writeTastingTable(cmd.OutOrStdout(), result)
	},
}

func init() {
	createCmd.Flags().String("title", "", "tasting title")
	createCmd.Flags().String("host", "", "host name")
	createCmd.Flags().String("slug", "", "public slug (generated from the title when empty)")
	createCmd.Flags().String("pin", "", "PIN participants need to join")
	createCmd.Flags().Int("wines", 0, "number of wine slots")
	createCmd.Flags().Int("max-participants", 0, "participant cap, 0 for none")
	createCmd.Flags().StringArray("criterion", nil, "criterion as label:min:max[:weight], repeatable")
	createCmd.Flags().Bool("open", false, "open the tasting right away")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("host")
	_ = createCmd.MarkFlagRequired("pin")
	_ = createCmd.MarkFlagRequired("wines")

	listCmd.Flags().Int("page", 1, "page number")
	listCmd.Flags().Int("page-size", 20, "tastings per page")

	rootCmd.AddCommand(createCmd, statusCmd, listCmd)
}
