package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/core/common/validation"
	"github.com/frahmantamala/school-admin/internal/entry"
	"github.com/frahmantamala/school-admin/internal/justification"
	"github.com/frahmantamala/school-admin/internal/listing"
	"github.com/frahmantamala/school-admin/internal/report"
)

func newJustificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "justifications",
		Aliases: []string{"justificantes"},
		Short:   "Manage absence justifications",
	}
	cmd.AddCommand(
		newJustificationsListCmd(a),
		newJustificationsCreateCmd(a),
		newJustificationsUpdateCmd(a),
		newJustificationsDeleteCmd(a),
		newJustificationsPDFCmd(a),
		newJustificationsReportCmd(a),
	)
	return cmd
}

func justificationController(c *client) *listing.Controller[justification.Justification] {
	return listing.NewController("justificantes", c.justifications.List, c.bus, c.logger)
}

// justificationFilterFlags holds the raw flag values; the preset is parsed
// once the command runs.
type justificationFilterFlags struct {
	filters justification.Filters
	fecha   string
}

func (f *justificationFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.filters.Search, "search", "s", "", "search by student name")
	cmd.Flags().StringVar(&f.filters.Tipo, "tipo", "", "Enfermedad, Familiar, Escolar or Otros")
	cmd.Flags().StringVar(&f.filters.Departamento, "departamento", "", "issuing department")
	cmd.Flags().StringVar(&f.filters.Grado, "grado", "", "grade: 1, 2 or 3")
	cmd.Flags().StringVar(&f.filters.Grupo, "grupo", "", "group letter")
	cmd.Flags().StringVar(&f.filters.Turno, "turno", "", "shift: Matutino or Vespertino")
	cmd.Flags().StringVar(&f.fecha, "fecha", "", "start date within: hoy, ayer, semana, mes or año")
	cmd.Flags().BoolVar(&f.filters.MineOnly, "mine", false, "only the ones I created")
}

func (f *justificationFilterFlags) resolve(c *client) (justification.Filters, error) {
	out := f.filters
	p, err := calendar.ParsePreset(f.fecha)
	if err != nil {
		return out, err
	}
	out.Fecha = p
	if out.MineOnly {
		out.UserID = c.session.User.ID
	}
	return out, nil
}

func newJustificationsListCmd(a *app) *cobra.Command {
	var (
		flags justificationFilterFlags
		pages pageFlags
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List justifications, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			filters, err := flags.resolve(c)
			if err != nil {
				return err
			}
			ctrl := justificationController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			page := paginate(a, filters.Apply(a.clock, ctrl.Items()), pages)
			headers := []string{"ID", "ALUMNO", "GRUPO", "TIPO", "DEPARTAMENTO", "INICIO", "REGRESO", "DÍAS", "TOTAL"}
			return printPage(a.out, page, headers, func(j justification.Justification) []string {
				return []string{
					strconv.FormatInt(j.ID, 10),
					j.AlumnoNombre,
					j.Grupo,
					j.TipoJustificante,
					j.Departamento,
					j.FechaInicio.String(),
					j.FechaRegreso.String(),
					strconv.Itoa(j.TiempoDias),
					strconv.Itoa(j.TotalJustificantes),
				}
			})
		},
	}
	flags.register(cmd)
	pages.register(cmd.Flags())
	return cmd
}

// justificationForm collects the create/update flags.
type justificationForm struct {
	alumnoID int64
	alumno   string
	tipo     string
	tutor    string
	motivo   string
	inicio   string
	regreso  string
}

func (f *justificationForm) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.alumnoID, "alumno-id", 0, "student id")
	cmd.Flags().StringVar(&f.alumno, "alumno", "", "student name, when the id is not known")
	cmd.Flags().StringVar(&f.tipo, "tipo", "", "Enfermedad, Familiar, Escolar or Otros")
	cmd.Flags().StringVar(&f.tutor, "tutor", "", "guardian name")
	cmd.Flags().StringVar(&f.motivo, "motivo", "", "reason")
	cmd.Flags().StringVar(&f.inicio, "inicio", "", "first day of absence (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.regreso, "regreso", "", "return day (YYYY-MM-DD)")
}

// apply copies the flags that were given onto dto.
func (f *justificationForm) apply(ctx context.Context, c *client, cmd *cobra.Command, dto *justification.JustificationDTO) error {
	changed := cmd.Flags().Changed
	if changed("tipo") {
		dto.TipoJustificante = f.tipo
	}
	if changed("tutor") {
		dto.Tutor = f.tutor
	}
	if changed("motivo") {
		dto.Motivo = f.motivo
	}

	var errs []error
	if changed("inicio") {
		d, err := calendar.ParseDate(f.inicio)
		if err != nil {
			errs = append(errs, internal.NewValidationFieldError("fecha_inicio", "Fecha de inicio inválida", internal.ErrCodeInvalidDate))
		}
		dto.FechaInicio = d
	}
	if changed("regreso") {
		d, err := calendar.ParseDate(f.regreso)
		if err != nil {
			errs = append(errs, internal.NewValidationFieldError("fecha_regreso", "Fecha de regreso inválida", internal.ErrCodeInvalidDate))
		}
		dto.FechaRegreso = d
	}
	if err := validation.Merge(errs...); err != nil {
		return err
	}

	switch {
	case changed("alumno-id"):
		dto.AlumnoID = f.alumnoID
	case changed("alumno"):
		students, err := c.students.List(ctx)
		if err != nil {
			return c.check(err)
		}
		s, err := entry.ResolveStudent(students, f.alumno)
		if err != nil {
			return err
		}
		dto.AlumnoID = s.ID
	}
	return nil
}

func newJustificationsCreateCmd(a *app) *cobra.Command {
	var form justificationForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a justification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			var dto justification.JustificationDTO
			if err := form.apply(cmd.Context(), c, cmd, &dto); err != nil {
				return err
			}
			ctrl := justificationController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}

			var created *justification.Justification
			err = ctrl.Mutate(cmd.Context(), "create", func(ctx context.Context) error {
				var err error
				created, err = c.justifications.Create(ctx, c.principal(), dto, ctrl.Items())
				return err
			})
			if created != nil {
				fmt.Fprintf(a.out, "Justificante %d creado para %s: %d días hábiles.\n", created.ID, created.AlumnoNombre, created.TiempoDias)
			}
			return c.check(err)
		},
	}
	form.register(cmd)
	return cmd
}

func newJustificationsUpdateCmd(a *app) *cobra.Command {
	var form justificationForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a justification; omitted fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			ctrl := justificationController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			current, ok := find(ctrl.Items(), id, func(j justification.Justification) int64 { return j.ID })
			if !ok {
				return notFound("justificante", id)
			}
			dto := justification.FromJustification(current)
			if err := form.apply(cmd.Context(), c, cmd, &dto); err != nil {
				return err
			}

			err = ctrl.Mutate(cmd.Context(), "update", func(ctx context.Context) error {
				_, err := c.justifications.Update(ctx, c.principal(), id, dto, ctrl.Items())
				return err
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Justificante actualizado.")
			return nil
		},
	}
	form.register(cmd)
	return cmd
}

func newJustificationsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a justification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			err = justificationController(c).Delete(cmd.Context(), a.confirmer(), justification.DeletePrompt, func(ctx context.Context) error {
				return c.justifications.Delete(ctx, id)
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Justificante eliminado.")
			return nil
		},
	}
}

func newJustificationsPDFCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Write the printable justificante",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			ctrl := justificationController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			j, ok := find(ctrl.Items(), id, func(j justification.Justification) int64 { return j.ID })
			if !ok {
				return notFound("justificante", id)
			}

			path := filepath.Join(dir, report.JustificationFileName(id))
			if err := writeFile(path, func(w io.Writer) error { return report.JustificationPDF(w, j) }); err != nil {
				return err
			}
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	return cmd
}

func newJustificationsReportCmd(a *app) *cobra.Command {
	var (
		flags  justificationFilterFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the filtered list as XLSX or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			filters, err := flags.resolve(c)
			if err != nil {
				return err
			}
			if !filters.Active() {
				return report.ErrNoFilter
			}
			ctrl := justificationController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}

			now := a.clock.Now()
			items := filters.Apply(a.clock, ctrl.Items())
			if out == "" {
				out = f.FileName()
			}
			if err := writeFile(out, func(w io.Writer) error {
				return report.JustificationList(w, items, filters, f, now)
			}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (%d justificantes)\n", out, len(items))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "pdf", "xlsx or pdf")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default lista_justificantes.<format>)")
	return cmd
}

// writeFile creates path with render's output, removing it when render fails.
func writeFile(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
