package gke

import "fmt"

// renderKubeconfig builds an exec-auth kubeconfig document using the same
// context naming gcloud emits. The user entry runs gke-gcloud-auth-plugin at
// connection time, so the file itself carries only the endpoint and CA
// certificate.
func renderKubeconfig(clusterName, endpoint, caData, projectID, location string) []byte {
	contextName := fmt.Sprintf("gke_%s_%s_%s", projectID, location, clusterName)
	doc := fmt.Sprintf(`apiVersion: v1
kind: Config
clusters:
- cluster:
    certificate-authority-data: %s
    server: https://%s
  name: %s
contexts:
- context:
    cluster: %s
    user: %s
  name: %s
current-context: %s
users:
- name: %s
  user:
    exec:
      apiVersion: client.authentication.k8s.io/v1beta1
      command: gke-gcloud-auth-plugin
      provideClusterInfo: true
      installHint: Install gke-gcloud-auth-plugin for kubectl by following
        https://cloud.google.com/kubernetes-engine/docs/how-to/cluster-access-for-kubectl
`, caData, endpoint, contextName, contextName, contextName, contextName, contextName, contextName)
	return []byte(doc)
}
