package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frahmantamala/school-admin/internal/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal
)

// readPassword reads a password without echo when stdin is a terminal and a
// plain line otherwise.
func (a *app) readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminalFunc(fd) {
		return a.readLine(prompt)
	}
	fmt.Fprint(a.errOut, prompt)
	pwd, err := readPasswordFunc(fd)
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var dto user.LoginDTO
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(true)
			if err != nil {
				return err
			}
			defer c.close()

			if dto.Nombre == "" {
				if dto.Nombre, err = a.readLine("Usuario: "); err != nil {
					return err
				}
			}
			if dto.Password == "" {
				if dto.Password, err = a.readPassword("Contraseña: "); err != nil {
					return err
				}
			}

			sess, err := c.users.Login(cmd.Context(), dto)
			if err != nil {
				return err
			}
			if err := a.sessions.Save(sess); err != nil {
				return err
			}
			a.logger.Info("logged in", "user_id", sess.User.ID)
			fmt.Fprintf(a.out, "Bienvenido, %s (%s)\n", sess.User.Nombre, user.RoleOf(sess.User.Rol).Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&dto.Nombre, "nombre", "u", "", "user name")
	cmd.Flags().StringVarP(&dto.Password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Sesión cerrada.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := a.sessions.Load()
			if err != nil {
				return err
			}
			rol := user.RoleOf(sess.User.Rol)
			fmt.Fprintf(a.out, "%s (id %d)\n", sess.User.Nombre, sess.User.ID)
			fmt.Fprintf(a.out, "Rol: %s\n", rol.Label())
			if dep := rol.Department(); dep != "" {
				fmt.Fprintf(a.out, "Departamento: %s\n", dep)
			}
			if exp, ok := sess.ExpiresAt(); ok {
				fmt.Fprintf(a.out, "Sesión válida hasta: %s\n", exp.In(a.clock.Now().Location()).Format(time.DateTime))
			}
			return nil
		},
	}
}
