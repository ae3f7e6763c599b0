package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/entry"
	"github.com/frahmantamala/school-admin/internal/listing"
)

func newEntriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entradas-salidas"},
		Short:   "Record visitor entries and exits",
	}
	cmd.AddCommand(
		newEntriesListCmd(a),
		newEntriesCreateCmd(a),
		newEntriesUpdateCmd(a),
		newEntriesDeleteCmd(a),
	)
	return cmd
}

func entryController(c *client) *listing.Controller[entry.Entry] {
	return listing.NewController("entradas-salidas", c.entries.List, c.bus, c.logger)
}

type entryFilterFlags struct {
	filters entry.Filters
	fecha   string
	desde   string
	hasta   string
	dia     string
	hora    int
}

func (f *entryFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.filters.OnlyStudents, "solo-alumnos", false, "only records linked to a student")
	cmd.Flags().StringVarP(&f.filters.Search, "search", "s", "", "search by visitor or student name")
	cmd.Flags().StringVar(&f.filters.Tipo, "tipo", "", "Entrada or Salida")
	cmd.Flags().StringVar(&f.fecha, "fecha", "", "registered within: hoy, ayer, semana, mes or año")
	cmd.Flags().StringVar(&f.desde, "desde", "", "registered on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.hasta, "hasta", "", "registered on or before this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.dia, "dia", "", "registered on this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.hora, "hora", -1, "registered at this hour, 0-23")
}

func (f *entryFilterFlags) resolve() (entry.Filters, error) {
	out := f.filters
	var err error
	if out.Fecha, err = calendar.ParsePreset(f.fecha); err != nil {
		return out, err
	}
	if out.Desde, err = calendar.ParseDate(f.desde); err != nil {
		return out, err
	}
	if out.Hasta, err = calendar.ParseDate(f.hasta); err != nil {
		return out, err
	}
	if out.Dia, err = calendar.ParseDate(f.dia); err != nil {
		return out, err
	}
	if f.hora >= 0 {
		if f.hora > 23 {
			return out, fmt.Errorf("hora fuera de rango: %d", f.hora)
		}
		h := f.hora
		out.Hora = &h
	}
	return out, nil
}

func newEntriesListCmd(a *app) *cobra.Command {
	var (
		flags entryFilterFlags
		pages pageFlags
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries and exits, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, err := flags.resolve()
			if err != nil {
				return err
			}
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			ctrl := entryController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			page := paginate(a, filters.Apply(a.clock, ctrl.Items()), pages)
			headers := []string{"ID", "TIPO", "VISITA", "ALUMNO", "MOTIVO", "REGISTRO"}
			return printPage(a.out, page, headers, func(e entry.Entry) []string {
				return []string{
					strconv.FormatInt(e.ID, 10),
					e.Tipo,
					e.NombreVisita,
					e.NombreAlumno,
					e.Motivo,
					e.FechaRegistro.String(),
				}
			})
		},
	}
	flags.register(cmd)
	pages.register(cmd.Flags())
	return cmd
}

type entryForm struct {
	visita string
	motivo string
	tipo   string
	alumno string
}

func (f *entryForm) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.visita, "visita", "", "visitor name")
	cmd.Flags().StringVar(&f.motivo, "motivo", "", fmt.Sprintf("reason, up to %d characters", entry.MaxMotivo))
	cmd.Flags().StringVar(&f.tipo, "tipo", "", "Entrada or Salida")
	cmd.Flags().StringVar(&f.alumno, "alumno", "", "student name; empty unlinks the student")
}

// apply copies the given flags onto dto, resolving the student by name.
func (f *entryForm) apply(ctx context.Context, c *client, cmd *cobra.Command, dto *entry.EntryDTO) error {
	changed := cmd.Flags().Changed
	if changed("visita") {
		dto.NombreVisita = f.visita
	}
	if changed("motivo") {
		dto.Motivo = f.motivo
	}
	if changed("tipo") {
		dto.Tipo = f.tipo
	}
	if !changed("alumno") {
		return nil
	}
	if f.alumno == "" {
		dto.AlumnoID = nil
		return nil
	}
	students, err := c.students.List(ctx)
	if err != nil {
		return c.check(err)
	}
	s, err := entry.ResolveStudent(students, f.alumno)
	if err != nil {
		return err
	}
	id := s.ID
	dto.AlumnoID = &id
	return nil
}

func newEntriesCreateCmd(a *app) *cobra.Command {
	var form entryForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a visit; the service stamps the time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			var dto entry.EntryDTO
			if err := form.apply(cmd.Context(), c, cmd, &dto); err != nil {
				return err
			}

			var created *entry.Entry
			err = entryController(c).Mutate(cmd.Context(), "create", func(ctx context.Context) error {
				var err error
				created, err = c.entries.Create(ctx, dto)
				return err
			})
			if created != nil {
				fmt.Fprintf(a.out, "%s registrada: %s, %s (id %d)\n", created.Tipo, created.NombreVisita, created.FechaRegistro, created.ID)
			}
			return c.check(err)
		},
	}
	form.register(cmd)
	return cmd
}

func newEntriesUpdateCmd(a *app) *cobra.Command {
	var form entryForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a record; omitted fields keep their value",
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

			ctrl := entryController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			current, ok := find(ctrl.Items(), id, func(e entry.Entry) int64 { return e.ID })
			if !ok {
				return notFound("registro", id)
			}
			dto := entry.FromEntry(current)
			if err := form.apply(cmd.Context(), c, cmd, &dto); err != nil {
				return err
			}

			err = ctrl.Mutate(cmd.Context(), "update", func(ctx context.Context) error {
				_, err := c.entries.Update(ctx, id, dto)
				return err
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Registro actualizado.")
			return nil
		},
	}
	form.register(cmd)
	return cmd
}

func newEntriesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
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

			err = entryController(c).Delete(cmd.Context(), a.confirmer(), entry.DeletePrompt, func(ctx context.Context) error {
				return c.entries.Delete(ctx, id)
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Registro eliminado.")
			return nil
		},
	}
}
