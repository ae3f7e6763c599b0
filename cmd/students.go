package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal/listing"
	"github.com/frahmantamala/school-admin/internal/student"
)

const studentDeletePrompt = "¿Estás seguro de que deseas eliminar este alumno?"

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"alumnos"},
		Short:   "Manage students",
	}
	cmd.AddCommand(
		newStudentsListCmd(a),
		newStudentsCreateCmd(a),
		newStudentsUpdateCmd(a),
		newStudentsDeleteCmd(a),
		newStudentsBulkCreateCmd(a),
		newStudentsBulkUpdateCmd(a),
		newStudentsBulkDeleteCmd(a),
	)
	return cmd
}

func studentController(c *client) *listing.Controller[student.Student] {
	return listing.NewController("alumnos", c.students.List, c.bus, c.logger)
}

func registerStudentFilters(cmd *cobra.Command, f *student.Filters) {
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "search by name")
	cmd.Flags().StringVar(&f.Grado, "grado", "", "grade: 1, 2 or 3")
	cmd.Flags().StringVar(&f.Grupo, "grupo", "", "group letter")
	cmd.Flags().StringVar(&f.Turno, "turno", "", "shift: Matutino or Vespertino")
}

var studentHeaders = []string{"ID", "NOMBRE", "GRUPO", "TURNO", "INGRESO"}

func studentCells(s student.Student) []string {
	return []string{strconv.FormatInt(s.ID, 10), s.Nombre, s.Grupo, s.Turno, strconv.Itoa(s.Ingreso)}
}

func newStudentsListCmd(a *app) *cobra.Command {
	var (
		filters student.Filters
		pages   pageFlags
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			ctrl := studentController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			page := paginate(a, filters.Apply(ctrl.Items()), pages)
			return printPage(a.out, page, studentHeaders, studentCells)
		},
	}
	registerStudentFilters(cmd, &filters)
	pages.register(cmd.Flags())
	return cmd
}

func registerStudentDTO(cmd *cobra.Command, dto *student.StudentDTO) {
	cmd.Flags().StringVar(&dto.Nombre, "nombre", "", "full name")
	cmd.Flags().StringVar(&dto.Grupo, "grupo", "", "group, grade and letter (\"2B\")")
	cmd.Flags().StringVar(&dto.Turno, "turno", "", "shift: Matutino or Vespertino")
	cmd.Flags().IntVar(&dto.Ingreso, "ingreso", 0, "enrolment year")
}

func newStudentsCreateCmd(a *app) *cobra.Command {
	var dto student.StudentDTO
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			var created *student.Student
			err = studentController(c).Mutate(cmd.Context(), "create", func(ctx context.Context) error {
				var err error
				created, err = c.students.Create(ctx, dto)
				return err
			})
			if created != nil {
				fmt.Fprintf(a.out, "Alumno creado: %s (id %d)\n", created.Nombre, created.ID)
			}
			return c.check(err)
		},
	}
	registerStudentDTO(cmd, &dto)
	return cmd
}

func newStudentsUpdateCmd(a *app) *cobra.Command {
	var dto student.StudentDTO
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a student; omitted fields keep their value",
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

			ctrl := studentController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			current, ok := find(ctrl.Items(), id, func(s student.Student) int64 { return s.ID })
			if !ok {
				return notFound("alumno", id)
			}
			flags := cmd.Flags()
			if !flags.Changed("nombre") {
				dto.Nombre = current.Nombre
			}
			if !flags.Changed("grupo") {
				dto.Grupo = current.Grupo
			}
			if !flags.Changed("turno") {
				dto.Turno = current.Turno
			}
			if !flags.Changed("ingreso") {
				dto.Ingreso = current.Ingreso
			}

			err = ctrl.Mutate(cmd.Context(), "update", func(ctx context.Context) error {
				_, err := c.students.Update(ctx, id, dto)
				return err
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Alumno actualizado.")
			return nil
		},
	}
	registerStudentDTO(cmd, &dto)
	return cmd
}

func newStudentsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student",
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

			err = studentController(c).Delete(cmd.Context(), a.confirmer(), studentDeletePrompt, func(ctx context.Context) error {
				return c.students.Delete(ctx, id)
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Alumno eliminado.")
			return nil
		},
	}
}

func newStudentsBulkCreateCmd(a *app) *cobra.Command {
	var (
		dto  student.BulkCreateDTO
		file string
	)
	cmd := &cobra.Command{
		Use:   "bulk-create",
		Short: "Add a whole group, one name per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read names: %w", err)
				}
				dto.Nombres = string(data)
			}

			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			var created []student.Student
			err = studentController(c).Mutate(cmd.Context(), "bulk-create", func(ctx context.Context) error {
				var err error
				created, err = c.students.BulkCreate(ctx, dto)
				return err
			})
			if created != nil {
				fmt.Fprintf(a.out, "Se agregaron %d alumnos al grupo %s%s.\n", len(created), dto.Grado, dto.Grupo)
			}
			return c.check(err)
		},
	}
	cmd.Flags().StringVar(&dto.Turno, "turno", "", "shift: Matutino or Vespertino")
	cmd.Flags().StringVar(&dto.Grado, "grado", "", "grade: 1, 2 or 3")
	cmd.Flags().StringVar(&dto.Grupo, "grupo", "", "group letter")
	cmd.Flags().StringVar(&dto.Ingreso, "ingreso", "", "enrolment year")
	cmd.Flags().StringVar(&dto.Nombres, "nombres", "", "names separated by new lines")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the names from this file")
	return cmd
}

// selectGroup loads the students and returns the part of the pinned group
// that filters and keep select.
func selectGroup(ctx context.Context, c *client, filters student.Filters, keep []int64) (*student.Selection, error) {
	if _, err := filters.Group(); err != nil {
		return nil, err
	}
	ctrl := studentController(c)
	if err := load(ctx, c, ctrl); err != nil {
		return nil, err
	}
	return filters.Select(ctrl.Items(), keep)
}

func newStudentsBulkUpdateCmd(a *app) *cobra.Command {
	var (
		filters student.Filters
		dto     student.BulkUpdateDTO
		only    []int64
	)
	cmd := &cobra.Command{
		Use:   "bulk-update",
		Short: "Move the selected students of a group to a new group and/or enrolment year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			sel, err := selectGroup(cmd.Context(), c, filters, only)
			if err != nil {
				return c.check(err)
			}
			dto.Grupo = sel.Grupo
			dto.ExcluirIds = sel.Excluded

			var res *student.BulkResult
			err = studentController(c).Mutate(cmd.Context(), "bulk-update", func(ctx context.Context) error {
				var err error
				res, err = c.students.BulkUpdate(ctx, dto)
				return err
			})
			if res != nil {
				fmt.Fprintf(a.out, "Se actualizaron %d de %d alumnos del grupo %s.\n", res.Affected, len(sel.Members), sel.Grupo)
			}
			return c.check(err)
		},
	}
	registerStudentFilters(cmd, &filters)
	cmd.Flags().StringVar(&dto.NuevoGrupo, "nuevo-grupo", "", "new group (\"3B\")")
	cmd.Flags().IntVar(&dto.NuevoIngreso, "nuevo-ingreso", 0, "new enrolment year")
	cmd.Flags().Int64SliceVar(&only, "only", nil, "ids to change; the rest of the group is kept")
	return cmd
}

func newStudentsBulkDeleteCmd(a *app) *cobra.Command {
	var (
		filters student.Filters
		only    []int64
	)
	cmd := &cobra.Command{
		Use:   "bulk-delete",
		Short: "Delete the selected students of a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			sel, err := selectGroup(cmd.Context(), c, filters, only)
			if err != nil {
				return c.check(err)
			}
			dto := student.BulkDeleteDTO{Grupo: sel.Grupo, ExcluirIds: sel.Excluded}
			prompt := student.DeletePrompt(sel.Grupo, len(sel.Members), len(sel.Selected))

			var res *student.BulkResult
			err = studentController(c).Delete(cmd.Context(), a.confirmer(), prompt, func(ctx context.Context) error {
				var err error
				res, err = c.students.BulkDelete(ctx, dto)
				return err
			})
			if res != nil {
				fmt.Fprintf(a.out, "Se eliminaron %d alumnos del grupo %s.\n", res.Affected, sel.Grupo)
			}
			return c.check(err)
		},
	}
	registerStudentFilters(cmd, &filters)
	cmd.Flags().Int64SliceVar(&only, "only", nil, "ids to delete; the rest of the group is kept")
	return cmd
}
