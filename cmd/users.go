package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/listing"
	"github.com/frahmantamala/school-admin/internal/user"
)

const userDeletePrompt = "¿Estás seguro de que deseas eliminar este usuario?"

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"usuarios"},
		Short:   "Manage staff accounts",
	}
	cmd.AddCommand(
		newUsersListCmd(a),
		newUsersCreateCmd(a),
		newUsersUpdateCmd(a),
		newUsersDeleteCmd(a),
	)
	return cmd
}

func userController(c *client) *listing.Controller[user.User] {
	return listing.NewController("users", c.users.List, c.bus, c.logger)
}

func newUsersListCmd(a *app) *cobra.Command {
	var (
		filters user.Filters
		rol     string
		pages   pageFlags
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rol != "" {
				r, err := user.ParseRole(rol)
				if err != nil {
					return fmt.Errorf("rol %q: %w", rol, err)
				}
				filters.Rol = r
			}

			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			ctrl := userController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			page := paginate(a, filters.Apply(ctrl.Items()), pages)
			return printPage(a.out, page, []string{"ID", "NOMBRE", "ROL"}, func(u user.User) []string {
				return []string{strconv.FormatInt(u.ID, 10), u.Nombre, u.Rol.Label()}
			})
		},
	}
	cmd.Flags().StringVarP(&filters.Search, "search", "s", "", "search by name")
	cmd.Flags().StringVar(&rol, "rol", "", "only users with this role")
	pages.register(cmd.Flags())
	return cmd
}

func newUsersCreateCmd(a *app) *cobra.Command {
	var dto user.CreateUserDTO
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.close()

			if dto.Password == "" {
				if dto.Password, err = a.readPassword("Contraseña: "); err != nil {
					return err
				}
			}

			var created *user.User
			err = userController(c).Mutate(cmd.Context(), "create", func(ctx context.Context) error {
				created, err = c.users.Create(ctx, dto)
				return err
			})
			if created == nil {
				return c.check(err)
			}
			fmt.Fprintf(a.out, "Usuario creado: %s (id %d)\n", created.Nombre, created.ID)
			return c.check(err)
		},
	}
	cmd.Flags().StringVar(&dto.Nombre, "nombre", "", "user name")
	cmd.Flags().StringVar(&dto.Rol, "rol", "", "role: maestro, prefecto, direccion, trabajo social or enfermeria")
	cmd.Flags().StringVar(&dto.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newUsersUpdateCmd(a *app) *cobra.Command {
	var dto user.UpdateUserDTO
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a user; the password is kept unless --password is given",
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

			ctrl := userController(c)
			if err := load(cmd.Context(), c, ctrl); err != nil {
				return err
			}
			current, ok := find(ctrl.Items(), id, func(u user.User) int64 { return u.ID })
			if !ok {
				return notFound("usuario", id)
			}
			if !cmd.Flags().Changed("nombre") {
				dto.Nombre = current.Nombre
			}
			if !cmd.Flags().Changed("rol") {
				dto.Rol = string(current.Rol)
			}

			err = ctrl.Mutate(cmd.Context(), "update", func(ctx context.Context) error {
				_, err := c.users.Update(ctx, id, dto)
				return err
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Usuario actualizado.")
			return nil
		},
	}
	cmd.Flags().StringVar(&dto.Nombre, "nombre", "", "new name")
	cmd.Flags().StringVar(&dto.Rol, "rol", "", "new role")
	cmd.Flags().StringVar(&dto.Password, "password", "", "new password")
	return cmd
}

func newUsersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
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

			err = userController(c).Delete(cmd.Context(), a.confirmer(), userDeletePrompt, func(ctx context.Context) error {
				return c.users.Delete(ctx, id)
			})
			if err != nil {
				return c.check(err)
			}
			fmt.Fprintln(a.out, "Usuario eliminado.")
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError(fmt.Sprintf("id inválido: %q", s), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

func find[T any](items []T, id int64, idOf func(T) int64) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func notFound(what string, id int64) error {
	return internal.NewNotFoundError(fmt.Sprintf("No existe el %s con id %d", what, id), internal.ErrCodeNotFound)
}
