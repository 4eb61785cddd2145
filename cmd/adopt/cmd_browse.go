package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/domain/shelters"
	"pet-adoption-web/internal/tui"
)

var (
	petFilter     pets.Filter
	petAgeRange   string
	petSpecies    string
	petGender     string
	shelterFilter shelters.Filter
)

var petsCmd = &cobra.Command{
	Use:   "pets [petID]",
	Short: "List adoptable pets, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		s := pets.NewSlice(c.api.Pets, c.log)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			p, err := s.FetchByID(cmd.Context(), args[0])
			if errors.Is(err, pets.ErrNotFound) {
				return fmt.Errorf("pet %s not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, petDetail(p))
			return nil
		}

		f := petFilter
		f.Species = pets.Species(strings.ToLower(petSpecies))
		f.Gender = pets.Gender(strings.ToLower(petGender))
		f.AgeRange = pets.AgeRange(strings.ToLower(petAgeRange))
		if err := f.Validate(); err != nil {
			return err
		}
		page, err := s.Fetch(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tui.PetsTable(page.Pets, page.Pagination))
		return nil
	},
}

var sheltersCmd = &cobra.Command{
	Use:   "shelters [shelterID]",
	Short: "List shelters, or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		s := shelters.NewSlice(c.api.Shelters, c.log)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			sh, err := s.FetchByID(cmd.Context(), args[0])
			if errors.Is(err, shelters.ErrNotFound) {
				return fmt.Errorf("shelter %s not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n%s\n%s  %s\n\n%s\n", sh.ShelterName, sh.Location(), sh.Email, sh.Phone, sh.Description)
			return nil
		}

		page, err := s.Fetch(cmd.Context(), shelterFilter)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tui.SheltersTable(page.Shelters, page.Pagination))
		return nil
	},
}

func petDetail(p pets.Pet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s", p.Name, p.Species)
	if p.Breed != "" {
		fmt.Fprintf(&b, ", %s", p.Breed)
	}
	fmt.Fprintf(&b, ")\n%s • %s • %s\n", p.Gender, p.Age, p.Status)
	if l := p.Shelter.Label(); l != "" {
		fmt.Fprintf(&b, "Shelter: %s\n", l)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}
	if p.Adoptable() {
		fmt.Fprintf(&b, "\nApply with: adopt apply %s\n", p.ID)
	}
	return b.String()
}

func init() {
	pf := petsCmd.Flags()
	pf.StringVar(&petSpecies, "species", "", "dog, cat, bird, rabbit or other")
	pf.StringVar(&petFilter.City, "city", "", "city")
	pf.StringVar(&petFilter.State, "state", "", "state")
	pf.StringVar(&petFilter.ShelterID, "shelter", "", "shelter id")
	pf.StringVar(&petAgeRange, "age", "", "baby, young, adult or senior")
	pf.StringVar(&petGender, "gender", "", "male or female")
	pf.IntVar(&petFilter.Page, "page", 1, "page")
	pf.IntVar(&petFilter.Limit, "limit", pets.DefaultLimit, "results per page")

	sf := sheltersCmd.Flags()
	sf.StringVar(&shelterFilter.City, "city", "", "city")
	sf.StringVar(&shelterFilter.State, "state", "", "state")
	sf.IntVar(&shelterFilter.Page, "page", 1, "page")
	sf.IntVar(&shelterFilter.Limit, "limit", shelters.DefaultLimit, "results per page")
}
