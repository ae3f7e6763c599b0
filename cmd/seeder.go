package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal/auth"
	"github.com/frahmantamala/school-admin/internal/storage"
	"github.com/frahmantamala/school-admin/internal/student"
	studentPostgres "github.com/frahmantamala/school-admin/internal/student/postgres"
	"github.com/frahmantamala/school-admin/internal/user"
	userPostgres "github.com/frahmantamala/school-admin/internal/user/postgres"
)

// sampleGroup is the group --sample fills for a fresh development database.
var sampleGroup = student.BulkCreateRequest{Alumnos: []student.StudentDTO{
	{Nombre: "Ana Martínez López", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
	{Nombre: "José Hernández Ruiz", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
	{Nombre: "María Fernanda Gómez", Grupo: "2G", Turno: student.TurnoVespertino, Ingreso: 2023},
	{Nombre: "Luis Ángel Pérez", Grupo: "3B", Turno: student.TurnoMatutino, Ingreso: 2022},
}}

func newSeedCmd(a *app) *cobra.Command {
	var (
		dto    user.CreateUserDTO
		sample bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first direccion account",
		Long:  `Create the first direccion account, and optionally a few sample students, so the client commands can log in.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Database.Validate(); err != nil {
				return fmt.Errorf("database config: %w", err)
			}
			if dto.Password == "" {
				var err error
				if dto.Password, err = a.readPassword("Contraseña para " + dto.Nombre + ": "); err != nil {
					return err
				}
			}

			store, err := storage.Open(a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			authService := auth.NewService(nil, a.cfg.Security.BCryptCost)
			users := user.NewBackend(userPostgres.NewUserRepository(store.Gorm), authService, a.logger)

			dto.Rol = string(user.RoleDireccion)
			created, err := users.Create(cmd.Context(), dto)
			switch {
			case errors.Is(err, user.ErrDuplicateName):
				fmt.Fprintf(a.out, "El usuario %s ya existe.\n", dto.Nombre)
			case err != nil:
				return fmt.Errorf("failed to seed user: %w", err)
			default:
				fmt.Fprintf(a.out, "Usuario %s creado (id %d).\n", created.Nombre, created.ID)
			}

			if !sample {
				return nil
			}
			students := student.NewBackend(studentPostgres.NewStudentRepository(store.Gorm), a.logger)
			seeded, err := students.BulkCreate(cmd.Context(), sampleGroup)
			if err != nil {
				return fmt.Errorf("failed to seed students: %w", err)
			}
			fmt.Fprintf(a.out, "Se agregaron %d alumnos de ejemplo.\n", len(seeded))
			return nil
		},
	}
	cmd.Flags().StringVar(&dto.Nombre, "nombre", "direccion", "user name")
	cmd.Flags().StringVar(&dto.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&sample, "sample", false, "also add sample students")
	return cmd
}
